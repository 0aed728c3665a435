package discord

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DefaultReplyTimeout bounds how long a collector waits for a reply.
const DefaultReplyTimeout = 5 * time.Minute

// ReplyCollector waits for the next message in a channel, optionally from a
// single author. Exactly one of OnReply and OnTimeout fires, exactly once;
// the first qualifying message stops further listening.
type ReplyCollector struct {
	channelID string
	authorID  string // empty means any author qualifies

	OnReply   func(*discordgo.Message)
	OnTimeout func()

	mu      sync.Mutex
	done    bool
	timer   *time.Timer
	release func() // unregisters the collector from the bot's router
}

// NewReplyCollector creates an unstarted collector. authorID may be empty.
func NewReplyCollector(channelID, authorID string) *ReplyCollector {
	return &ReplyCollector{channelID: channelID, authorID: authorID}
}

// start arms the timeout. release runs exactly once, on either outcome.
func (c *ReplyCollector) start(timeout time.Duration, release func()) {
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release = release
	c.timer = time.AfterFunc(timeout, c.expire)
}

// Handle offers a message to the collector and reports whether it was
// consumed. Late arrivals after resolution are never consumed.
func (c *ReplyCollector) Handle(m *discordgo.Message) bool {
	if m.ChannelID != c.channelID {
		return false
	}
	if c.authorID != "" && (m.Author == nil || m.Author.ID != c.authorID) {
		return false
	}

	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return false
	}
	c.done = true
	if c.timer != nil {
		c.timer.Stop()
	}
	release := c.release
	c.mu.Unlock()

	if release != nil {
		release()
	}
	if c.OnReply != nil {
		c.OnReply(m)
	}
	return true
}

func (c *ReplyCollector) expire() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	release := c.release
	c.mu.Unlock()

	if release != nil {
		release()
	}
	if c.OnTimeout != nil {
		c.OnTimeout()
	}
}
