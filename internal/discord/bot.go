// Package discord owns the Discord session: login, event routing, command
// dispatch, and the two interaction primitives built on top of it, the
// reply collector and the page navigator.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"shimarin/internal/command"
	"shimarin/internal/config"
	"shimarin/internal/version"
)

// Bot is the Discord front end. Construct with New, attach the command
// registry once with SetRegistry, then Run.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	registry *command.Registry

	mu         sync.RWMutex
	navigators map[string]*PageNavigator // keyed by message ID
	collectors []*ReplyCollector
}

// New creates a Bot. The session is not opened until Run.
func New(cfg *config.Config) *Bot {
	return &Bot{
		cfg:        cfg,
		navigators: make(map[string]*PageNavigator),
	}
}

// SetRegistry attaches the command registry. Called once at startup, before
// Run; the registry is immutable afterwards.
func (b *Bot) SetRegistry(r *command.Registry) {
	b.registry = r
}

// Registry returns the attached command registry.
func (b *Bot) Registry() *command.Registry {
	return b.registry
}

// Run opens the Discord session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onMessageReactionAdd)
	dg.AddHandler(b.onMessageReactionRemove)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, closing Discord session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("username", r.User.Username).
		Str("app", version.AppName).
		Msg("Logged in")
}

// onMessageCreate dispatches prefixed messages through the registry;
// everything else is offered to the active reply collectors. Commands win
// over collectors: a collector waiting on a channel must never swallow a
// command typed there. Prefixed chatter that resolves to no command falls
// through to the collectors.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	if name, args, ok := command.Parse(b.cfg.CommandPrefix, m.Content); ok {
		if cmd, found := b.registry.Resolve(name); found {
			b.runCommand(cmd, name, m.Message, args)
			return
		}
	}

	b.dispatchToCollectors(m.Message)
}

func (b *Bot) runCommand(cmd *command.Command, name string, m *discordgo.Message, args []string) {
	// One failing invocation must not take down the dispatch loop.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("command", name).Msg("Command panicked")
		}
	}()

	if err := cmd.Run(m, args); err != nil {
		log.Error().Err(err).Str("command", name).Msg("Command failed")
		if err := b.SendError(m.ChannelID, "Something went wrong while running that command."); err != nil {
			log.Warn().Err(err).Msg("Could not report command failure")
		}
	}
}

func (b *Bot) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.routeReaction(s, r.MessageReaction)
}

func (b *Bot) onMessageReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	b.routeReaction(s, r.MessageReaction)
}

// routeReaction forwards both add and remove events so a user can press
// the same arrow repeatedly by toggling their reaction.
func (b *Bot) routeReaction(s *discordgo.Session, r *discordgo.MessageReaction) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	b.mu.RLock()
	nav := b.navigators[r.MessageID]
	b.mu.RUnlock()
	if nav != nil {
		nav.HandleReaction(r.Emoji.Name, r.UserID)
	}
}

// Navigate attaches a page navigator to a previously sent message and
// starts listening for reaction navigation from userID.
func (b *Bot) Navigate(channelID, messageID, userID string, current, last int, gen PageGenerator) (*PageNavigator, error) {
	nav := NewPageNavigator(b.dg, channelID, messageID, userID, current, last, gen)
	nav.release = func() {
		b.mu.Lock()
		delete(b.navigators, messageID)
		b.mu.Unlock()
	}

	b.mu.Lock()
	b.navigators[messageID] = nav
	b.mu.Unlock()

	if err := nav.Listen(); err != nil {
		b.mu.Lock()
		delete(b.navigators, messageID)
		b.mu.Unlock()
		return nil, err
	}
	return nav, nil
}

// CollectReply waits for the next message in channelID, from authorID when
// non-empty, for at most timeout (DefaultReplyTimeout when zero). Exactly
// one of onReply and onTimeout fires; either may be nil.
func (b *Bot) CollectReply(channelID, authorID string, timeout time.Duration, onReply func(*discordgo.Message), onTimeout func()) *ReplyCollector {
	c := NewReplyCollector(channelID, authorID)
	c.OnReply = onReply
	c.OnTimeout = onTimeout

	b.mu.Lock()
	b.collectors = append(b.collectors, c)
	b.mu.Unlock()

	c.start(timeout, func() { b.removeCollector(c) })
	return c
}

func (b *Bot) dispatchToCollectors(m *discordgo.Message) bool {
	b.mu.RLock()
	collectors := make([]*ReplyCollector, len(b.collectors))
	copy(collectors, b.collectors)
	b.mu.RUnlock()

	for _, c := range collectors {
		if c.Handle(m) {
			return true
		}
	}
	return false
}

func (b *Bot) removeCollector(c *ReplyCollector) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cur := range b.collectors {
		if cur == c {
			b.collectors = append(b.collectors[:i], b.collectors[i+1:]...)
			return
		}
	}
}
