package modules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"shimarin/internal/command"
	"shimarin/internal/discord"
	"shimarin/internal/trivia"
)

// Trivia returns the trivia module: one anime and manga trivia question
// at a time, answered by numeric reply.
func Trivia(d Deps) *command.Module {
	m := command.NewModule("trivia")

	m.MustAdd(command.Info{
		Name: "trivia",
		Help: &command.Help{
			Short:    "Asks an anime and manga trivia question.",
			Long:     "Reply with the number of your answer.",
			Examples: []string{"trivia"},
		},
	}, func(msg *discordgo.Message, _ []string) error {
		return d.postTrivia(msg)
	})

	return m
}

func (d Deps) postTrivia(msg *discordgo.Message) error {
	question, err := d.Trivia.Question(context.Background())
	if err != nil {
		return fmt.Errorf("fetch trivia question: %w", err)
	}

	var choices strings.Builder
	for i, choice := range question.Choices {
		fmt.Fprintf(&choices, "%d. **%s**\n", i+1, choice)
	}

	embed := &discordgo.MessageEmbed{
		Color:       defaultProfileColor,
		Title:       "Trivia question",
		Description: fmt.Sprintf("%s\n\n%s", question.Content, choices.String()),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Trivia question data provided by Open Trivia DB (opentdb.com).",
		},
	}
	if _, err := d.Bot.SendEmbed(msg.ChannelID, embed); err != nil {
		return err
	}

	d.Bot.CollectReply(msg.ChannelID, msg.Author.ID, discord.DefaultReplyTimeout,
		func(reply *discordgo.Message) {
			if err := d.gradeTrivia(msg.ChannelID, question, reply.Content); err != nil {
				log.Error().Err(err).Msg("Could not grade trivia answer")
			}
		}, nil)

	return nil
}

func (d Deps) gradeTrivia(channelID string, question *trivia.Question, content string) error {
	choice, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || choice < 1 || choice > len(question.Choices) {
		return d.Bot.SendError(channelID, "Selected number is not a valid choice.")
	}
	if question.Choices[choice-1] == question.Answer {
		return d.Bot.SendNotice(channelID, "Correct!",
			fmt.Sprintf("**%s** is the right answer.", question.Answer))
	}
	return d.Bot.SendNotice(channelID, "Wrong!",
		fmt.Sprintf("The right answer was **%s**.", question.Answer))
}
