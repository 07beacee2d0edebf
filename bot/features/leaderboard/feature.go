package leaderboard

import (
	"context"
	"fmt"

	"mikune/bot/common"
	"mikune/models"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// Feature renders the /leaderboard command
type Feature struct {
	accountService service.AccountService
	images         *ImageGenerator
}

func New(accountService service.AccountService) *Feature {
	return &Feature{
		accountService: accountService,
		images:         NewImageGenerator(),
	}
}

func (f *Feature) Commands() []string {
	return []string{common.CommandLeaderboard}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	kind := models.LeaderboardByMoney
	if opt := common.OptionMap(i.ApplicationCommandData().Options)["by"]; opt != nil {
		kind = models.ParseLeaderboardKind(opt.StringValue())
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		return common.NewSystemError(err, "failed to defer leaderboard response")
	}

	entries, err := f.accountService.Leaderboard(context.Background(), kind, common.LeaderboardPageSize)
	if err != nil {
		return common.Deferred(common.FromServiceError(err, "failed to rank accounts"))
	}

	names := make(map[string]string, len(entries))
	for _, entry := range entries {
		names[entry.UserID] = common.GetDisplayName(s, i.GuildID, entry.UserID)
	}

	png, err := f.images.Generate(kind, entries, names)
	if err != nil {
		return common.Deferred(common.NewSystemError(err, "failed to render leaderboard"))
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏆 Leaderboard · %s", kindLabel(kind)),
		Color: common.ColorCarrot,
	}
	if err := common.FollowUpWithImage(s, i, embed, "leaderboard.png", png); err != nil {
		return common.Deferred(common.NewSystemError(err, "failed to send leaderboard"))
	}
	return nil
}

func kindLabel(kind models.LeaderboardKind) string {
	switch kind {
	case models.LeaderboardByLevel:
		return "Level"
	case models.LeaderboardByXP:
		return "Experience"
	default:
		return "Net worth"
	}
}
