package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"shimarin/internal/version"
)

const (
	noticeColor = 0xDEC027
	errorColor  = 0xE13333
)

// Send sends a plain text message to a channel.
func (b *Bot) Send(channelID, content string) error {
	_, err := b.dg.ChannelMessageSend(channelID, content)
	return err
}

// SendEmbed sends an embed and returns the created message, so callers can
// attach navigators or edit it later.
func (b *Bot) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return b.dg.ChannelMessageSendEmbed(channelID, embed)
}

// EditEmbed replaces the embed on an existing message.
func (b *Bot) EditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed) error {
	_, err := b.dg.ChannelMessageEditEmbed(channelID, messageID, embed)
	return err
}

// SendError sends a red error notice.
func (b *Bot) SendError(channelID, desc string) error {
	_, err := b.SendEmbed(channelID, &discordgo.MessageEmbed{
		Description: desc,
		Color:       errorColor,
	})
	return err
}

// SendNotice sends an informational embed.
func (b *Bot) SendNotice(channelID, title, desc string) error {
	_, err := b.SendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       title,
		Description: desc,
		Color:       noticeColor,
	})
	return err
}

// OpenDM opens or reuses the direct message channel with a user.
func (b *Bot) OpenDM(userID string) (*discordgo.Channel, error) {
	return b.dg.UserChannelCreate(userID)
}

// ChannelNSFW reports whether the channel is marked for adult content.
// Unknown channels and DMs report false.
func (b *Bot) ChannelNSFW(channelID string) bool {
	ch, err := b.dg.State.Channel(channelID)
	if err != nil {
		ch, err = b.dg.Channel(channelID)
		if err != nil {
			log.Warn().Err(err).Str("channel", channelID).Msg("Could not resolve channel")
			return false
		}
	}
	return ch.NSFW
}

// Username returns the logged-in bot account name, for help output.
func (b *Bot) Username() string {
	if b.dg != nil && b.dg.State != nil && b.dg.State.User != nil {
		return b.dg.State.User.Username
	}
	return version.AppName
}
