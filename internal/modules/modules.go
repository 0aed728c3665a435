// Package modules defines the bot's command modules. Each module groups
// related commands and closes over the shared collaborators in Deps.
package modules

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"shimarin/internal/anilist"
	"shimarin/internal/command"
	"shimarin/internal/discord"
	"shimarin/internal/storage"
	"shimarin/internal/trivia"
)

// Bot is the surface of the Discord front end the command modules drive.
// *discord.Bot implements it; tests substitute a fake.
type Bot interface {
	Send(channelID, content string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
	EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error
	SendError(channelID, desc string) error
	SendNotice(channelID, title, desc string) error
	OpenDM(userID string) (*discordgo.Channel, error)
	ChannelNSFW(channelID string) bool
	Username() string
	Registry() *command.Registry
	Navigate(channelID, messageID, userID string, current, last int, gen discord.PageGenerator) (*discord.PageNavigator, error)
	CollectReply(channelID, authorID string, timeout time.Duration, onReply func(*discordgo.Message), onTimeout func()) *discord.ReplyCollector
}

// Deps carries the collaborators command handlers close over.
type Deps struct {
	Bot     Bot
	AniList *anilist.Client
	Store   *storage.Storage
	Trivia  *trivia.Client
	Prefix  string
}

// All returns every command module in registration order. Earlier modules
// win name collisions.
func All(d Deps) []*command.Module {
	return []*command.Module{
		Core(d),
		List(d),
		Search(d),
		Account(d),
		Updates(d),
		Trivia(d),
	}
}

// viewer resolves the caller's linked AniList profile, or nil when no
// account is connected or the profile cannot be fetched. Personalization
// degrades to defaults rather than failing the command.
func (d Deps) viewer(ctx context.Context, discordID string) *anilist.Viewer {
	conn, ok := d.Store.Connection(discordID)
	if !ok {
		return nil
	}
	v, err := d.AniList.ViewerFromToken(ctx, conn.Token)
	if err != nil {
		log.Warn().Err(err).Str("user", discordID).Msg("Could not fetch linked viewer")
		return nil
	}
	return v
}
