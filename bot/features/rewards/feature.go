package rewards

import (
	"mikune/bot/common"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles cooldown-gated reward commands
type Feature struct {
	rewardService service.RewardService
}

func New(rewardService service.RewardService) *Feature {
	return &Feature{rewardService: rewardService}
}

func (f *Feature) Commands() []string {
	return []string{
		common.CommandDaily,
		common.CommandWeekly,
		common.CommandWork,
		common.CommandRob,
		common.CommandJob,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	switch i.ApplicationCommandData().Name {
	case common.CommandDaily:
		return f.handleReward(s, i, f.rewardService.Daily)
	case common.CommandWeekly:
		return f.handleReward(s, i, f.rewardService.Weekly)
	case common.CommandWork:
		return f.handleReward(s, i, f.rewardService.Work)
	case common.CommandRob:
		return f.handleRob(s, i)
	case common.CommandJob:
		return f.handleJob(s, i)
	}
	return common.NewUserError("Unknown command.", "unknown reward command")
}
