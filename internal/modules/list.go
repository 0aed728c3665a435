package modules

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"shimarin/internal/anilist"
	"shimarin/internal/command"
)

// profileColors maps the named colors AniList lets users pick to embed
// colors; users may also set a raw hex color.
var profileColors = map[string]int{
	"blue":   0x3DB4F2,
	"purple": 0xC063FF,
	"pink":   0xFC9DD6,
	"orange": 0xEF881A,
	"red":    0xE13333,
	"green":  0x4CCA51,
	"gray":   0x677B94,
}

const defaultProfileColor = 0xDEC027

func embedColorFor(profileColor string) int {
	if hex, ok := strings.CutPrefix(profileColor, "#"); ok {
		if v, err := strconv.ParseInt(hex, 16, 32); err == nil {
			return int(v)
		}
		return defaultProfileColor
	}
	if v, ok := profileColors[profileColor]; ok {
		return v
	}
	return defaultProfileColor
}

// parseListFilter maps the free-form type/section arguments of the list
// command onto a media list filter. Defaults to completed anime.
func parseListFilter(args []string) anilist.MediaListFilter {
	filter := anilist.MediaListFilter{
		Type:   anilist.MediaTypeAnime,
		Status: anilist.StatusCompleted,
	}
	set := make(map[string]bool, len(args))
	for _, a := range args {
		set[a] = true
	}
	if set["manga"] {
		filter.Type = anilist.MediaTypeManga
	}
	if set["watching"] || set["reading"] {
		filter.Status = anilist.StatusCurrent
	}
	if set["dropped"] {
		filter.Status = anilist.StatusDropped
	}
	if set["planned"] {
		filter.Status = anilist.StatusPlanning
	}
	return filter
}

// List returns the media list module: anilist/list, watching and reading.
func List(d Deps) *command.Module {
	m := command.NewModule("list")

	m.MustAdd(command.Info{
		Name:    "anilist",
		Aliases: []string{"list"},
		Help: &command.Help{
			Short: `Gets a section of a AniList user's anime or manga
				list`,
			Long: `The user's list of completed anime will be returned
				if no other arguments are provided.`,
			Args: []command.Arg{
				{Name: "username", Desc: "AniList username."},
				{Name: "type", Desc: "`anime` or `manga`"},
				{Name: "section", Desc: "`completed`, `watching`, `reading`, `planned` or `dropped`."},
			},
			Examples: []string{
				"anilist DamourYouKnow",
				"anilist DamourYouKnow manga planned",
			},
		},
	}, func(msg *discordgo.Message, args []string) error {
		var username string
		rest := args
		if len(args) > 0 {
			username = args[0]
			rest = args[1:]
		}
		return d.postMediaList(msg, username, parseListFilter(rest))
	})

	m.MustAdd(command.Info{
		Name: "watching",
		Help: &command.Help{
			Short: `Gets the list of anime that a AniList user is
				currently watching.`,
			Args:     []command.Arg{{Name: "username", Desc: "AniList username."}},
			Examples: []string{"watching DamourYouKnow"},
		},
	}, func(msg *discordgo.Message, args []string) error {
		var username string
		if len(args) > 0 {
			username = args[0]
		}
		return d.postMediaList(msg, username, anilist.MediaListFilter{
			Type:   anilist.MediaTypeAnime,
			Status: anilist.StatusCurrent,
		})
	})

	m.MustAdd(command.Info{
		Name: "reading",
		Help: &command.Help{
			Short: `Gets the list of manga that a AniList user is
				currently reading.`,
			Args:     []command.Arg{{Name: "username", Desc: "AniList username."}},
			Examples: []string{"reading DamourYouKnow"},
		},
	}, func(msg *discordgo.Message, args []string) error {
		var username string
		if len(args) > 0 {
			username = args[0]
		}
		return d.postMediaList(msg, username, anilist.MediaListFilter{
			Type:   anilist.MediaTypeManga,
			Status: anilist.StatusCurrent,
		})
	})

	return m
}

func (d Deps) postMediaList(msg *discordgo.Message, username string, filter anilist.MediaListFilter) error {
	ctx := context.Background()
	if username == "" {
		return d.Bot.SendError(msg.ChannelID, "No AniList username was provided.")
	}

	viewer := d.viewer(ctx, msg.Author.ID)

	// The profile is looked up on its own so an empty list still renders
	// the owner's name, avatar and color.
	user, err := d.AniList.SearchUser(ctx, username)
	if errors.Is(err, anilist.ErrNotFound) {
		return d.Bot.SendError(msg.ChannelID,
			fmt.Sprintf("No AniList profile for **%s** was found.", username))
	}
	if err != nil {
		return fmt.Errorf("look up profile %s: %w", username, err)
	}

	page, err := d.AniList.MediaList(ctx, user.ID, filter, 0)
	if err != nil {
		return fmt.Errorf("fetch %s's list: %w", username, err)
	}

	nsfw := d.Bot.ChannelNSFW(msg.ChannelID)
	sent, err := d.Bot.SendEmbed(msg.ChannelID, mediaListEmbed(user, viewer, page, filter, nsfw))
	if err != nil {
		return err
	}

	if page.Info.Total > page.Info.PerPage {
		_, err := d.Bot.Navigate(msg.ChannelID, sent.ID, msg.Author.ID,
			page.Info.CurrentPage, page.Info.LastPage,
			func(p int) (*discordgo.MessageEmbed, error) {
				next, err := d.AniList.MediaList(ctx, user.ID, filter, p)
				if err != nil {
					return nil, err
				}
				return mediaListEmbed(user, viewer, next, filter, nsfw), nil
			})
		if err != nil {
			log.Warn().Err(err).Msg("Could not attach list navigator")
		}
	}
	return nil
}

var listLabels = map[anilist.MediaType]map[anilist.MediaListStatus]string{
	anilist.MediaTypeAnime: {
		anilist.StatusCompleted: "completed anime list",
		anilist.StatusCurrent:   "watchlist",
		anilist.StatusDropped:   "dropped anime list",
		anilist.StatusPaused:    "paused anime list",
		anilist.StatusPlanning:  "plan to watch list",
		anilist.StatusRepeating: "re-watching list",
	},
	anilist.MediaTypeManga: {
		anilist.StatusCompleted: "completed manga list",
		anilist.StatusCurrent:   "readlist",
		anilist.StatusDropped:   "dropped manga list",
		anilist.StatusPaused:    "paused manga list",
		anilist.StatusPlanning:  "plan to read list",
		anilist.StatusRepeating: "re-reading list",
	},
}

var listURLTypes = map[anilist.MediaType]string{
	anilist.MediaTypeAnime: "animelist",
	anilist.MediaTypeManga: "mangalist",
}

var listURLStatuses = map[anilist.MediaType]map[anilist.MediaListStatus]string{
	anilist.MediaTypeAnime: {
		anilist.StatusCompleted: "Completed",
		anilist.StatusCurrent:   "Watching",
		anilist.StatusDropped:   "Dropped",
		anilist.StatusPaused:    "Paused",
		anilist.StatusPlanning:  "Planning",
		anilist.StatusRepeating: "Rewatching",
	},
	anilist.MediaTypeManga: {
		anilist.StatusCompleted: "Completed",
		anilist.StatusCurrent:   "Reading",
		anilist.StatusDropped:   "Dropped",
		anilist.StatusPaused:    "Paused",
		anilist.StatusPlanning:  "Planning",
		anilist.StatusRepeating: "Rereading",
	},
}

func mediaListEmbed(user *anilist.User, viewer *anilist.Viewer, page *anilist.Page[anilist.MediaListEntry], filter anilist.MediaListFilter, nsfw bool) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(page.Items))
	for _, entry := range page.Items {
		media := entry.Media

		url := fmt.Sprintf("https://anilist.co/%s/%d/", strings.ToLower(string(filter.Type)), media.ID)
		link := fmt.Sprintf("[Link](%s)", url)
		if media.IsAdult {
			link = fmt.Sprintf("[Link - AniList account required](%s)", url)
		}

		max := media.Episodes
		if filter.Type == anilist.MediaTypeManga {
			max = media.Chapters
		}
		count := "?"
		if max > 0 {
			count = strconv.Itoa(max)
		}

		name := anilist.DisplayTitle(media.Title, viewer)
		if !anilist.VisibleTo(media.IsAdult, viewer, nsfw) {
			name = anilist.AdultPlaceholderTitle
		}

		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: fmt.Sprintf("Progress: `%d / %s`\n%s", entry.Progress, count, link),
		})
	}

	embed := &discordgo.MessageEmbed{
		Color: embedColorFor(user.Options.ProfileColor),
		Title: fmt.Sprintf("%s's %s", user.Name, listLabels[filter.Type][filter.Status]),
		URL: fmt.Sprintf("https://anilist.co/user/%s/%s/%s",
			user.Name, listURLTypes[filter.Type], listURLStatuses[filter.Type][filter.Status]),
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: user.Avatar.Medium},
		Fields:    fields,
	}
	if page.Info.Total == 0 {
		embed.Description = "There are no entries in this list."
	}
	if page.Info.Total > page.Info.PerPage {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d / %d", page.Info.CurrentPage, page.Info.LastPage),
		}
	}
	return embed
}
