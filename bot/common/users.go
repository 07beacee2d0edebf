package common

import (
	"github.com/bwmarrin/discordgo"
)

// InteractionUser returns the invoking user for guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID returns the invoking user's id, or "" when unknown
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if user := InteractionUser(i); user != nil {
		return user.ID
	}
	return ""
}

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if guildID != "" {
		member, err := s.GuildMember(guildID, userID)
		if err == nil && member != nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				return displayName(member.User)
			}
		}
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return displayName(user)
	}

	return "Unknown"
}

func displayName(user *discordgo.User) string {
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID string) string {
	return "<@" + userID + ">"
}

// OptionMap indexes command options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// SubCommand returns the invoked subcommand and its options
func SubCommand(i *discordgo.InteractionCreate) (string, []*discordgo.ApplicationCommandInteractionDataOption) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 || options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		return "", options
	}
	return options[0].Name, options[0].Options
}
