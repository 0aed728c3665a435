package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const (
	reactPrev = "⬅️"
	reactNext = "➡️"
)

// navigatorIdleTimeout ends a paging session after this long without a
// qualifying reaction.
const navigatorIdleTimeout = 15 * time.Minute

type navState int

const (
	navIdle navState = iota
	navRendering
	navStopped
)

// PageGenerator renders the embed for one page.
type PageGenerator func(page int) (*discordgo.MessageEmbed, error)

// ReactionSession is the slice of the Discord session a navigator uses.
type ReactionSession interface {
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionRemove(channelID, messageID, emojiID, userID string, options ...discordgo.RequestOption) error
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// PageNavigator attaches prev/next reaction controls to a sent message and
// regenerates its content when the navigating user pages through it. The
// page stays within [0, lastPage]; at most one render is in flight at any
// time, and clicks arriving during a render are dropped rather than queued.
type PageNavigator struct {
	session   ReactionSession
	channelID string
	messageID string
	userID    string
	generate  PageGenerator

	mu          sync.Mutex
	state       navState
	page        int
	lastPage    int
	idle        *time.Timer
	idleTimeout time.Duration
	release     func()
}

// NewPageNavigator creates an unstarted navigator over an already sent
// message. Call Listen to attach the reaction controls.
func NewPageNavigator(session ReactionSession, channelID, messageID, userID string, current, last int, generate PageGenerator) *PageNavigator {
	if last < 0 {
		last = 0
	}
	return &PageNavigator{
		session:     session,
		channelID:   channelID,
		messageID:   messageID,
		userID:      userID,
		generate:    generate,
		page:        clampPage(current, last),
		lastPage:    last,
		idleTimeout: navigatorIdleTimeout,
	}
}

// Listen attaches the two reaction controls and arms the idle timer.
func (n *PageNavigator) Listen() error {
	for _, emoji := range []string{reactPrev, reactNext} {
		if err := n.session.MessageReactionAdd(n.channelID, n.messageID, emoji); err != nil {
			return fmt.Errorf("attach %s control: %w", emoji, err)
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.state == navStopped {
		return nil
	}
	n.idle = time.AfterFunc(n.idleTimeout, n.Stop)
	return nil
}

// HandleReaction processes one reaction event. Reactions from other users,
// other emoji, or while a render is in flight are ignored.
func (n *PageNavigator) HandleReaction(emoji, userID string) {
	if userID != n.userID {
		return
	}
	var delta int
	switch emoji {
	case reactPrev:
		delta = -1
	case reactNext:
		delta = 1
	default:
		return
	}

	n.mu.Lock()
	if n.state != navIdle {
		n.mu.Unlock()
		return
	}
	next := clampPage(n.page+delta, n.lastPage)
	if next == n.page {
		if n.idle != nil {
			n.idle.Reset(n.idleTimeout)
		}
		n.mu.Unlock()
		return
	}
	n.page = next
	n.state = navRendering
	n.mu.Unlock()

	embed, err := n.generate(next)
	if err != nil {
		log.Error().Err(err).Int("page", next).Msg("Page generation failed")
	} else if _, err := n.session.ChannelMessageEditEmbed(n.channelID, n.messageID, embed); err != nil {
		log.Error().Err(err).Str("message", n.messageID).Msg("Page edit failed")
	}

	n.mu.Lock()
	if n.state == navRendering {
		n.state = navIdle
		if n.idle != nil {
			n.idle.Reset(n.idleTimeout)
		}
	}
	n.mu.Unlock()
}

// Stop ends the session and retracts the bot's reaction controls. Safe to
// call more than once. Retraction failures are logged and swallowed since
// the session is ending regardless.
func (n *PageNavigator) Stop() {
	n.mu.Lock()
	if n.state == navStopped {
		n.mu.Unlock()
		return
	}
	n.state = navStopped
	if n.idle != nil {
		n.idle.Stop()
	}
	release := n.release
	n.mu.Unlock()

	if release != nil {
		release()
	}
	for _, emoji := range []string{reactPrev, reactNext} {
		if err := n.session.MessageReactionRemove(n.channelID, n.messageID, emoji, "@me"); err != nil {
			log.Warn().Err(err).Str("message", n.messageID).Msg("Could not retract navigation reaction")
		}
	}
}

// Page returns the current page number.
func (n *PageNavigator) Page() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.page
}

func clampPage(page, last int) int {
	if page < 0 {
		return 0
	}
	if page > last {
		return last
	}
	return page
}
