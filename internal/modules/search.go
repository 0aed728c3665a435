package modules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"shimarin/internal/anilist"
	"shimarin/internal/command"
	"shimarin/internal/search"
)

// Search returns the media search module: combined, anime and manga title
// lookup.
func Search(d Deps) *command.Module {
	m := command.NewModule("search")

	m.MustAdd(command.Info{
		Name: "search",
		Help: &command.Help{
			Short: "Searches for an anime or manga title on AniList.",
			Long: `Covers both catalogs. Use the anime or manga command
				to narrow the search to one.`,
			Args:     []command.Arg{{Name: "title", Desc: "Title to search for."}},
			Examples: []string{"search yuru camp"},
		},
	}, func(msg *discordgo.Message, args []string) error {
		return d.postMediaSearch(msg, strings.Join(args, " "), "")
	})

	m.MustAdd(command.Info{
		Name: "anime",
		Help: &command.Help{
			Short: "Searches for an anime title on AniList.",
			Long: `Lists every match when the search is ambiguous. Reply
				with a number or use the reactions to page through the
				results.`,
			Args:     []command.Arg{{Name: "title", Desc: "Anime title to search for."}},
			Examples: []string{"anime yuru camp"},
		},
	}, func(msg *discordgo.Message, args []string) error {
		return d.postMediaSearch(msg, strings.Join(args, " "), anilist.MediaTypeAnime)
	})

	m.MustAdd(command.Info{
		Name: "manga",
		Help: &command.Help{
			Short:    "Searches for a manga title on AniList.",
			Args:     []command.Arg{{Name: "title", Desc: "Manga title to search for."}},
			Examples: []string{"manga yotsuba"},
		},
	}, func(msg *discordgo.Message, args []string) error {
		return d.postMediaSearch(msg, strings.Join(args, " "), anilist.MediaTypeManga)
	})

	return m
}

func (d Deps) postMediaSearch(msg *discordgo.Message, query string, mediaType anilist.MediaType) error {
	ctx := context.Background()
	viewer := d.viewer(ctx, msg.Author.ID)

	label := "Search"
	empty := "No title was provided."
	switch mediaType {
	case anilist.MediaTypeAnime:
		label = "Anime"
		empty = "No anime title was provided."
	case anilist.MediaTypeManga:
		label = "Manga"
		empty = "No manga title was provided."
	}

	w := &search.Workflow[anilist.Media]{
		Bot:       d.Bot,
		ChannelID: msg.ChannelID,
		UserID:    msg.Author.ID,
		NSFW:      d.Bot.ChannelNSFW(msg.ChannelID),
		Viewer:    viewer,

		Query:        query,
		EmptyMessage: empty,
		Title:        fmt.Sprintf("%s results for \"%s\"", label, query),

		Fetch: func(page int) (*anilist.Page[anilist.Media], error) {
			return d.AniList.SearchMedia(ctx, query, mediaType, page)
		},
		Adult: func(media anilist.Media) bool {
			return media.IsAdult
		},
		Row: func(media anilist.Media, masked bool) search.Row {
			if masked {
				return search.Row{
					Name:  anilist.AdultPlaceholderTitle,
					Value: anilist.AdultPlaceholderDesc,
				}
			}
			return search.Row{
				Name:  anilist.DisplayTitle(media.Title, viewer),
				Value: fmt.Sprintf("[Link](%s)", media.SiteURL),
			}
		},
		Detail: func(media anilist.Media, masked bool) *discordgo.MessageEmbed {
			return mediaEmbed(media, viewer, masked)
		},
	}
	return w.Run()
}

func mediaEmbed(media anilist.Media, viewer *anilist.Viewer, masked bool) *discordgo.MessageEmbed {
	// No URL on the masked view: the site slug would leak the title the
	// placeholder is hiding.
	if masked {
		return &discordgo.MessageEmbed{
			Color:       defaultProfileColor,
			Title:       anilist.AdultPlaceholderTitle,
			Description: anilist.AdultPlaceholderDesc,
		}
	}

	fields := []*discordgo.MessageEmbedField{}
	if label, ok := anilist.FormatLabels[media.Format]; ok {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Format", Value: label, Inline: true,
		})
	}
	if media.Episodes > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Episodes", Value: strconv.Itoa(media.Episodes), Inline: true,
		})
	}
	if media.Chapters > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Chapters", Value: strconv.Itoa(media.Chapters), Inline: true,
		})
	}
	if media.AverageScore > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Average score",
			Value:  fmt.Sprintf("%.1f / 10", float64(media.AverageScore)/10),
			Inline: true,
		})
	}
	if len(media.Genres) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Genres", Value: strings.Join(media.Genres, ", "),
		})
	}

	return &discordgo.MessageEmbed{
		Color:       defaultProfileColor,
		Title:       anilist.DisplayTitle(media.Title, viewer),
		URL:         media.SiteURL,
		Description: anilist.CleanDescription(media.Description),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: media.CoverImage.Medium},
		Fields:      fields,
	}
}
