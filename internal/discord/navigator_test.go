package discord

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	added   []string
	removed []string
	edits   []*discordgo.MessageEmbed
}

func (f *fakeSession) MessageReactionAdd(channelID, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, emojiID)
	return nil
}

func (f *fakeSession) MessageReactionRemove(channelID, messageID, emojiID, userID string, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, emojiID)
	return nil
}

func (f *fakeSession) ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, embed)
	return &discordgo.Message{ID: messageID}, nil
}

func (f *fakeSession) editCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits)
}

func pageTitled(page int) (*discordgo.MessageEmbed, error) {
	return &discordgo.MessageEmbed{Title: fmt.Sprintf("page %d", page)}, nil
}

func TestNavigatorListenAttachesControls(t *testing.T) {
	s := &fakeSession{}
	n := NewPageNavigator(s, "chan", "msg", "user", 0, 3, pageTitled)
	require.NoError(t, n.Listen())
	assert.Equal(t, []string{reactPrev, reactNext}, s.added)
	n.Stop()
}

func TestNavigatorPagesAndClamps(t *testing.T) {
	s := &fakeSession{}
	n := NewPageNavigator(s, "chan", "msg", "user", 0, 2, pageTitled)
	require.NoError(t, n.Listen())
	defer n.Stop()

	for i := 0; i < 5; i++ {
		n.HandleReaction(reactNext, "user")
	}
	assert.Equal(t, 2, n.Page(), "page never exceeds the last page")
	require.Equal(t, 2, s.editCount(), "clamped clicks do not re-render")
	assert.Equal(t, "page 2", s.edits[1].Title)

	n.HandleReaction(reactPrev, "user")
	assert.Equal(t, 1, n.Page())
}

func TestNavigatorIgnoresOtherUsersAndEmoji(t *testing.T) {
	s := &fakeSession{}
	n := NewPageNavigator(s, "chan", "msg", "user", 0, 2, pageTitled)
	require.NoError(t, n.Listen())
	defer n.Stop()

	n.HandleReaction(reactNext, "intruder")
	n.HandleReaction("🔥", "user")
	assert.Equal(t, 0, n.Page())
	assert.Zero(t, s.editCount())
}

func TestNavigatorDropsClicksWhileRendering(t *testing.T) {
	s := &fakeSession{}
	block := make(chan struct{})
	started := make(chan struct{})
	n := NewPageNavigator(s, "chan", "msg", "user", 0, 5, func(page int) (*discordgo.MessageEmbed, error) {
		close(started)
		<-block
		return pageTitled(page)
	})
	require.NoError(t, n.Listen())
	defer n.Stop()

	done := make(chan struct{})
	go func() {
		n.HandleReaction(reactNext, "user")
		close(done)
	}()
	<-started

	// Arrives mid-render and must be dropped, not queued.
	n.HandleReaction(reactNext, "user")

	close(block)
	<-done
	assert.Equal(t, 1, n.Page())
	assert.Equal(t, 1, s.editCount())
}

func TestNavigatorStopIsIdempotentAndRetractsControls(t *testing.T) {
	s := &fakeSession{}
	released := 0
	n := NewPageNavigator(s, "chan", "msg", "user", 0, 2, pageTitled)
	n.release = func() { released++ }
	require.NoError(t, n.Listen())

	n.Stop()
	n.Stop()

	assert.Equal(t, []string{reactPrev, reactNext}, s.removed)
	assert.Equal(t, 1, released)

	n.HandleReaction(reactNext, "user")
	assert.Equal(t, 0, n.Page(), "stopped navigators ignore reactions")
}

func TestNavigatorIdleTimeoutStops(t *testing.T) {
	s := &fakeSession{}
	n := NewPageNavigator(s, "chan", "msg", "user", 0, 2, pageTitled)
	n.idleTimeout = 10 * time.Millisecond
	require.NoError(t, n.Listen())

	assert.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return len(s.removed) == 2
	}, time.Second, 5*time.Millisecond, "idle timeout should retract the controls")
}

func TestNavigatorClampsInitialPage(t *testing.T) {
	n := NewPageNavigator(&fakeSession{}, "chan", "msg", "user", 9, 4, pageTitled)
	assert.Equal(t, 4, n.Page())
	n = NewPageNavigator(&fakeSession{}, "chan", "msg", "user", -1, 4, pageTitled)
	assert.Equal(t, 0, n.Page())
}
