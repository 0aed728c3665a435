package modules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"shimarin/internal/command"
	"shimarin/internal/discord"
)

// Account returns the account module: linking a Discord user to their
// AniList account over DM.
func Account(d Deps) *command.Module {
	m := command.NewModule("account")

	m.MustAdd(command.Info{
		Name: "connect",
		Help: &command.Help{
			Short: "Connects your AniList account.",
			Long: `Connecting an account unlocks your AniList title
				language and adult content preferences. Instructions are
				sent over direct message.`,
			Examples: []string{"connect"},
		},
	}, func(msg *discordgo.Message, _ []string) error {
		return d.connectAccount(msg)
	})

	return m
}

func (d Deps) connectAccount(msg *discordgo.Message) error {
	dm, err := d.Bot.OpenDM(msg.Author.ID)
	if err != nil {
		return d.Bot.SendError(msg.ChannelID,
			"I had trouble direct messaging the instructions to you. "+
				"Check that your privacy settings allow direct messages from me.")
	}

	embed := &discordgo.MessageEmbed{
		Color: defaultProfileColor,
		Title: "Connect your AniList account",
		Description: fmt.Sprintf(
			"[Click here](%s) to log in to AniList, then reply to this "+
				"message with the code you are given.", d.AniList.AuthCodeURL()),
	}
	if _, err := d.Bot.SendEmbed(dm.ID, embed); err != nil {
		return fmt.Errorf("send connect instructions: %w", err)
	}

	if msg.GuildID != "" {
		if err := d.Bot.SendNotice(msg.ChannelID, "Check your direct messages",
			"Instructions for connecting your AniList account have been sent to you."); err != nil {
			log.Warn().Err(err).Msg("Could not acknowledge connect command")
		}
	}

	d.Bot.CollectReply(dm.ID, msg.Author.ID, discord.DefaultReplyTimeout,
		func(reply *discordgo.Message) {
			if err := d.finishConnect(dm.ID, msg.Author.ID, reply.Content); err != nil {
				log.Error().Err(err).Msg("Account connection failed")
			}
		}, nil)

	return nil
}

func (d Deps) finishConnect(dmID, discordID, content string) error {
	ctx := context.Background()

	code := content
	if fields := strings.Fields(content); len(fields) > 0 {
		code = fields[0]
	}

	token, err := d.AniList.ExchangeCode(ctx, code)
	if err != nil {
		return d.Bot.SendError(dmID, "The authentication code you have provided is invalid.")
	}

	viewer, err := d.AniList.ViewerFromToken(ctx, token)
	if err != nil {
		d.reportConnectFailure(dmID)
		return fmt.Errorf("fetch viewer profile: %w", err)
	}

	if err := d.Store.UpsertConnection(discordID, strconv.Itoa(viewer.ID), token); err != nil {
		d.reportConnectFailure(dmID)
		return fmt.Errorf("save connection: %w", err)
	}

	return d.Bot.SendNotice(dmID, "Account connected",
		fmt.Sprintf("Connected to AniList account **%s**.", viewer.Name))
}

func (d Deps) reportConnectFailure(dmID string) {
	err := d.Bot.SendError(dmID,
		"Something went wrong while connecting your account. Try again later.")
	if err != nil {
		log.Warn().Err(err).Msg("Could not report connection failure")
	}
}
