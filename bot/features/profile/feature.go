package profile

import (
	"context"

	"mikune/bot/common"
	"mikune/models"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
)

// Feature renders the /profile card
type Feature struct {
	accountService service.AccountService
}

func New(accountService service.AccountService) *Feature {
	return &Feature{accountService: accountService}
}

func (f *Feature) Commands() []string {
	return []string{common.CommandProfile}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	ctx := context.Background()
	userID := common.InteractionUserID(i)
	targetID := userID
	if opt := common.OptionMap(i.ApplicationCommandData().Options)["user"]; opt != nil {
		targetID = opt.UserValue(nil).ID
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		return common.NewSystemError(err, "failed to defer profile response")
	}

	var account *models.Account
	var err error
	if targetID == userID {
		account, err = f.accountService.EnsureUser(ctx, userID)
	} else {
		account, err = f.accountService.GetAccount(ctx, targetID)
	}
	if err != nil {
		return common.Deferred(common.FromServiceError(err, "failed to load profile"))
	}

	name := common.GetDisplayName(s, i.GuildID, targetID)
	png, err := RenderCard(NewCardData(name, account))
	if err != nil {
		return common.Deferred(common.NewSystemError(err, "failed to render profile card"))
	}

	embed := &discordgo.MessageEmbed{
		Title: name + "'s profile",
		Color: common.ColorCarrot,
	}
	if err := common.FollowUpWithImage(s, i, embed, "profile.png", png); err != nil {
		return common.Deferred(common.NewSystemError(err, "failed to send profile card"))
	}
	return nil
}
