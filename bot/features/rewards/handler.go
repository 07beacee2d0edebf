package rewards

import (
	"context"
	"fmt"
	"strings"

	"mikune/bot/common"
	"mikune/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type claimFunc func(ctx context.Context, userID string) (*models.RewardResult, error)

func (f *Feature) handleReward(s *discordgo.Session, i *discordgo.InteractionCreate, claim claimFunc) error {
	result, err := claim(context.Background(), common.InteractionUserID(i))
	if err != nil {
		return common.FromServiceError(err, "reward claim rejected")
	}

	return common.RespondWithEmbed(s, i, RewardEmbed(result), false)
}

func (f *Feature) handleRob(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	opt := common.OptionMap(i.ApplicationCommandData().Options)["user"]
	if opt == nil {
		return common.NewUserError("Please choose someone to rob.", "missing rob target")
	}
	target := opt.UserValue(nil)

	thiefID := common.InteractionUserID(i)
	result, err := f.rewardService.Rob(context.Background(), thiefID, target.ID)
	if err != nil {
		return common.FromServiceError(err, "rob rejected")
	}

	log.WithFields(log.Fields{
		"thief":   thiefID,
		"target":  target.ID,
		"success": result.Success,
		"amount":  result.Amount,
	}).Info("Rob attempt")

	return common.RespondWithEmbed(s, i, RobEmbed(target.ID, result), false)
}

func (f *Feature) handleJob(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	sub, options := common.SubCommand(i)
	switch sub {
	case "list":
		return common.RespondWithEmbed(s, i, JobsEmbed(), true)
	case "set":
		opt := common.OptionMap(options)["job"]
		if opt == nil {
			return common.NewUserError("Please choose a job.", "missing job option")
		}
		job, err := f.rewardService.SetJob(context.Background(), common.InteractionUserID(i), opt.StringValue())
		if err != nil {
			return common.FromServiceError(err, "job change rejected")
		}
		return common.RespondWithSuccess(s, i, fmt.Sprintf("You are now working as a **%s**. Pay %s–%s every %dm.",
			job.ID, common.FormatCarrots(job.MinPay), common.FormatCarrots(job.MaxPay), job.CooldownMinutes), false)
	}
	return common.NewUserError("Please choose list or set.", "missing job subcommand")
}

var rewardTitles = map[models.TransactionType]string{
	models.TransactionTypeDaily:  "🎁 Daily reward",
	models.TransactionTypeWeekly: "📦 Weekly reward",
	models.TransactionTypeWork:   "🛠️ Work",
}

// RewardEmbed renders a claimed reward with its level bonus and XP
func RewardEmbed(result *models.RewardResult) *discordgo.MessageEmbed {
	title, ok := rewardTitles[result.Type]
	if !ok {
		title = string(result.Type)
	}

	lines := []string{fmt.Sprintf("You received **%s**.", common.FormatCarrots(result.Total))}
	if result.Bonus > 0 {
		lines = append(lines, fmt.Sprintf("Includes a level bonus of %s.", common.FormatCarrots(result.Bonus)))
	}
	if result.XPGained > 0 {
		lines = append(lines, fmt.Sprintf("+%d XP", result.XPGained))
	}
	if result.LeveledUp {
		lines = append(lines, fmt.Sprintf("⬆️ **Level up!** You are now level %d.", result.Level))
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorSuccess,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Wallet: " + common.FormatCarrots(result.Balance),
		},
	}
}

// RobEmbed renders a rob attempt
func RobEmbed(targetID string, result *models.RobResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Success chance %.1f%% · Wallet: %s", result.ChancePercent, common.FormatCarrots(result.ThiefBalance)),
		},
	}

	if result.Success {
		embed.Title = "🦹 Robbery successful"
		embed.Description = fmt.Sprintf("You stole **%s** from %s!", common.FormatCarrots(result.Amount), common.GetUserMention(targetID))
		embed.Color = common.ColorSuccess
	} else {
		embed.Title = "🚨 Caught!"
		embed.Description = fmt.Sprintf("You were caught and paid %s a fine of **%s**.", common.GetUserMention(targetID), common.FormatCarrots(result.Amount))
		embed.Color = common.ColorDanger
	}
	return embed
}

// JobsEmbed lists every job with its pay range and cooldown
func JobsEmbed() *discordgo.MessageEmbed {
	var lines []string
	for _, job := range models.Jobs() {
		lines = append(lines, fmt.Sprintf("**%s** · %s–%s · every %dm\n%s",
			job.ID, common.FormatBalance(job.MinPay), common.FormatBalance(job.MaxPay), job.CooldownMinutes, job.Description))
	}
	return &discordgo.MessageEmbed{
		Title:       "💼 Jobs",
		Description: strings.Join(lines, "\n"),
		Color:       common.ColorInfo,
	}
}
