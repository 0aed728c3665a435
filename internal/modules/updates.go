package modules

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"shimarin/internal/anilist"
	"shimarin/internal/command"
)

// Updates returns the updates module: airing notifications for the
// caller's connected AniList account.
func Updates(d Deps) *command.Module {
	m := command.NewModule("updates")

	m.MustAdd(command.Info{
		Name: "updates",
		Help: &command.Help{
			Short: "Gets your recent AniList airing notifications.",
			Long: `Requires a connected AniList account. Use the connect
				command to link one.`,
			Examples: []string{"updates"},
		},
	}, func(msg *discordgo.Message, _ []string) error {
		return d.postUpdates(msg)
	})

	return m
}

func (d Deps) postUpdates(msg *discordgo.Message) error {
	ctx := context.Background()

	conn, ok := d.Store.Connection(msg.Author.ID)
	if !ok {
		return d.Bot.SendError(msg.ChannelID,
			"You must connect your AniList account to use this command.")
	}

	viewer, err := d.AniList.ViewerFromToken(ctx, conn.Token)
	if err != nil {
		return fmt.Errorf("fetch viewer profile: %w", err)
	}

	page, err := d.AniList.Notifications(ctx, conn.Token, 0)
	if err != nil {
		return fmt.Errorf("fetch notifications: %w", err)
	}

	nsfw := d.Bot.ChannelNSFW(msg.ChannelID)
	_, err = d.Bot.SendEmbed(msg.ChannelID, updatesEmbed(viewer, page, nsfw, time.Now()))
	return err
}

func updatesEmbed(viewer *anilist.Viewer, page *anilist.Page[anilist.AiringNotification], nsfw bool, now time.Time) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(page.Items))
	for _, n := range page.Items {
		name := anilist.DisplayTitle(n.Media.Title, viewer)
		if !anilist.VisibleTo(n.Media.IsAdult, viewer, nsfw) {
			name = anilist.AdultPlaceholderTitle
		}
		aired := time.Unix(int64(n.CreatedAt), 0)
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: fmt.Sprintf("Episode %d aired %s", n.Episode, timeAgo(now.Sub(aired))),
		})
	}

	embed := &discordgo.MessageEmbed{
		Color:  defaultProfileColor,
		Title:  fmt.Sprintf("%s's airing updates", viewer.Name),
		Fields: fields,
	}
	if len(fields) == 0 {
		embed.Description = "You have no recent airing updates."
	}
	return embed
}

// timeAgo renders an elapsed duration as its largest whole unit, down to
// seconds.
func timeAgo(elapsed time.Duration) string {
	units := []struct {
		name string
		size time.Duration
	}{
		{"month", 30 * 24 * time.Hour},
		{"week", 7 * 24 * time.Hour},
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
	}
	for _, u := range units {
		if count := int(elapsed / u.size); count >= 1 {
			return plural(count, u.name)
		}
	}
	seconds := int(elapsed / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return plural(seconds, "second")
}

func plural(count int, unit string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s ago", count, unit)
	}
	return fmt.Sprintf("%d %ss ago", count, unit)
}
