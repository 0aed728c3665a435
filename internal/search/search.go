// Package search implements the generic search workflow: run a remote
// search, branch on result cardinality, and for multiple hits combine
// reaction paging with numeric reply selection so the user can drill into
// one item.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"shimarin/internal/anilist"
	"shimarin/internal/discord"
)

// Runner is the slice of the bot a workflow drives.
type Runner interface {
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error
	SendError(channelID, desc string) error
	SendNotice(channelID, title, desc string) error
	Navigate(channelID, messageID, userID string, current, last int, gen discord.PageGenerator) (*discord.PageNavigator, error)
	CollectReply(channelID, authorID string, timeout time.Duration, onReply func(*discordgo.Message), onTimeout func()) *discord.ReplyCollector
}

// Row is one numbered line in a results listing.
type Row struct {
	Name  string
	Value string
}

// Workflow runs one search invocation. Fetch, Row and Detail parameterize
// it over the item type; Adult feeds the content-visibility rule, which is
// applied the same way to listing rows and detail views.
type Workflow[T any] struct {
	Bot       Runner
	ChannelID string
	UserID    string
	NSFW      bool
	Viewer    *anilist.Viewer

	Query        string
	EmptyMessage string // reported when Query is blank
	Title        string // listing embed title

	Fetch  func(page int) (*anilist.Page[T], error)
	Adult  func(item T) bool
	Row    func(item T, masked bool) Row
	Detail func(item T, masked bool) *discordgo.MessageEmbed
}

// masked reports whether the item must be rendered as a placeholder. Masked
// items keep their list number so indices stay stable.
func (w *Workflow[T]) masked(item T) bool {
	isAdult := w.Adult != nil && w.Adult(item)
	return !anilist.VisibleTo(isAdult, w.Viewer, w.NSFW)
}

// listing holds the page whose items are currently on screen; the
// navigator swaps it while the collector reads it for selection.
type listing[T any] struct {
	mu   sync.Mutex
	page *anilist.Page[T]
}

// Run executes the workflow for one invocation.
func (w *Workflow[T]) Run() error {
	if strings.TrimSpace(w.Query) == "" {
		return w.Bot.SendError(w.ChannelID, w.EmptyMessage)
	}

	page, err := w.Fetch(0)
	if err != nil {
		return fmt.Errorf("search %q: %w", w.Query, err)
	}

	switch len(page.Items) {
	case 0:
		return w.Bot.SendNotice(w.ChannelID, "No results found",
			"Double check your search query and try again.")
	case 1:
		item := page.Items[0]
		_, err := w.Bot.SendEmbed(w.ChannelID, w.Detail(item, w.masked(item)))
		return err
	}

	current := &listing[T]{page: page}
	msg, err := w.Bot.SendEmbed(w.ChannelID, w.listingEmbed(page))
	if err != nil {
		return fmt.Errorf("send results listing: %w", err)
	}

	nav, err := w.Bot.Navigate(w.ChannelID, msg.ID, w.UserID,
		page.Info.CurrentPage, page.Info.LastPage,
		func(p int) (*discordgo.MessageEmbed, error) {
			next, err := w.Fetch(p)
			if err != nil {
				return nil, err
			}
			current.mu.Lock()
			current.page = next
			current.mu.Unlock()
			return w.listingEmbed(next), nil
		})
	if err != nil {
		// The listing is still usable without paging.
		log.Warn().Err(err).Msg("Could not attach results navigator")
	}

	w.Bot.CollectReply(w.ChannelID, w.UserID, 0, func(reply *discordgo.Message) {
		choice, err := strconv.Atoi(strings.TrimSpace(reply.Content))
		if err != nil {
			return
		}
		current.mu.Lock()
		shown := current.page
		current.mu.Unlock()
		if choice < 1 || choice > len(shown.Items) {
			return
		}
		item := shown.Items[choice-1]
		if nav != nil {
			nav.Stop()
		}
		if err := w.Bot.EditEmbed(w.ChannelID, msg.ID, w.Detail(item, w.masked(item))); err != nil {
			log.Error().Err(err).Msg("Could not show selected result")
		}
	}, nil)

	return nil
}

func (w *Workflow[T]) listingEmbed(page *anilist.Page[T]) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(page.Items))
	for i, item := range page.Items {
		row := w.Row(item, w.masked(item))
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d. %s", i+1, row.Name),
			Value: row.Value,
		})
	}
	embed := &discordgo.MessageEmbed{
		Title:       w.Title,
		Description: "Enter the number of the content you are looking for.",
		Fields:      fields,
	}
	if page.Info.LastPage > 1 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d / %d", page.Info.CurrentPage, page.Info.LastPage),
		}
	}
	return embed
}
