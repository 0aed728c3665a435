package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"shimarin/internal/anilist"
	"shimarin/internal/command"
	"shimarin/internal/config"
	"shimarin/internal/discord"
	"shimarin/internal/logger"
	"shimarin/internal/modules"
	"shimarin/internal/storage"
	"shimarin/internal/trivia"
	"shimarin/internal/version"
)

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		_ = logger.Init(logger.Config{Level: "info"})
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		log.Fatal().Err(err).Msg("Could not set up logging")
	}

	log.Info().Str("version", version.BuildDate).Msgf("Starting %s", version.AppFullName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open datastore")
	}
	defer store.Close()

	bot := discord.New(cfg)

	deps := modules.Deps{
		Bot:     bot,
		AniList: anilist.New(cfg.AniList.ClientID, cfg.AniList.ClientSecret),
		Store:   store,
		Trivia:  trivia.New(),
		Prefix:  cfg.CommandPrefix,
	}
	bot.SetRegistry(command.NewRegistry(modules.All(deps)...))

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Bot stopped with error")
		}
	}

	log.Info().Msg("Stopped")
}
