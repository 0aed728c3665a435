package modules

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"shimarin/internal/command"
)

// Core returns the utility module: ping and the generated help command.
func Core(d Deps) *command.Module {
	m := command.NewModule("core")

	m.MustAdd(command.Info{
		Name: "ping",
		Help: &command.Help{
			Short:    "Replies with pong!",
			Long:     "This command is implemented for developer testing.",
			Examples: []string{"ping"},
		},
	}, func(msg *discordgo.Message, args []string) error {
		return d.Bot.Send(msg.ChannelID, "pong!")
	})

	m.MustAdd(command.Info{
		Name: "help",
		Help: &command.Help{
			Short: `Get a list of all commands or learn more about a
				command.`,
			Args: []command.Arg{
				{Name: "command", Desc: "The command to learn more about (Optional)."},
			},
			Examples: []string{"help", "help help"},
		},
	}, func(msg *discordgo.Message, args []string) error {
		if len(args) > 0 {
			_, err := d.Bot.SendEmbed(msg.ChannelID, d.helpEmbed(args[0]))
			return err
		}

		cmds := d.Bot.Registry().Commands()
		fields := make([]*discordgo.MessageEmbedField, 0, len(cmds))
		for _, c := range cmds {
			desc := "No description"
			if c.Info.Help != nil {
				desc = command.SingleLine(c.Info.Help.Short)
			}
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:  d.Prefix + c.Info.Name,
				Value: desc,
			})
		}
		_, err := d.Bot.SendEmbed(msg.ChannelID, &discordgo.MessageEmbed{
			Title:       d.Bot.Username() + " help",
			Description: "Here is the list of available commands:",
			Fields:      fields,
		})
		return err
	})

	return m
}

// helpEmbed builds the detail view for one command, or a not-found notice.
// Help strings are collapsed to single lines here, at display time.
func (d Deps) helpEmbed(name string) *discordgo.MessageEmbed {
	cmd, ok := d.Bot.Registry().Resolve(name)
	if !ok {
		return &discordgo.MessageEmbed{
			Title:       "Command not found",
			Color:       0xFF0000,
			Description: fmt.Sprintf("The command `%s` does not exist.", name),
		}
	}

	help := cmd.Info.Help
	var fields []*discordgo.MessageEmbedField

	if help != nil {
		if len(cmd.Info.Aliases) > 0 {
			quoted := make([]string, 0, len(cmd.Info.Aliases))
			for _, alias := range cmd.Info.Aliases {
				quoted = append(quoted, fmt.Sprintf("`%s`", alias))
			}
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:  "Aliases",
				Value: strings.Join(quoted, ", "),
			})
		}
		if len(help.Args) > 0 {
			usage := make([]string, 0, len(help.Args))
			descs := make([]string, 0, len(help.Args))
			for _, arg := range help.Args {
				usage = append(usage, fmt.Sprintf("<%s>", arg.Name))
				descs = append(descs, fmt.Sprintf("**%s**: %s", arg.Name, command.SingleLine(arg.Desc)))
			}
			fields = append(fields,
				&discordgo.MessageEmbedField{
					Name:  "Usage",
					Value: fmt.Sprintf("`%s%s %s`", d.Prefix, cmd.Info.Name, strings.Join(usage, " ")),
				},
				&discordgo.MessageEmbedField{
					Name:  "Arguments",
					Value: strings.Join(descs, "\n"),
				})
		}
		if len(help.Examples) > 0 {
			label := "Example"
			if len(help.Examples) > 1 {
				label = "Examples"
			}
			quoted := make([]string, 0, len(help.Examples))
			for _, ex := range help.Examples {
				quoted = append(quoted, fmt.Sprintf("`%s%s`", d.Prefix, ex))
			}
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:  label,
				Value: strings.Join(quoted, ", "),
			})
		}
	}

	desc := "No help information exists for this command."
	if help != nil && help.Short != "" {
		desc = command.SingleLine(help.Short)
		if help.Long != "" {
			desc += "\n\n" + command.SingleLine(help.Long)
		}
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s command help", cmd.Info.Name),
		Description: desc,
		Fields:      fields,
	}
}
