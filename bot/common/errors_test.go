package common

import (
	"errors"
	"fmt"
	"testing"

	"mikune/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromServiceError_EconomyError(t *testing.T) {
	econErr := &service.EconomyError{Kind: service.KindInsufficientFunds, Reason: "You don't have enough money."}

	botErr := FromServiceError(fmt.Errorf("deposit: %w", econErr), "deposit rejected")

	assert.True(t, botErr.IsUserError())
	assert.True(t, botErr.Ephemeral)
	assert.Equal(t, "You don't have enough money.", botErr.UserMessage)
	assert.Equal(t, "deposit rejected", botErr.Error())
}

func TestFromServiceError_SystemError(t *testing.T) {
	cause := errors.New("connection refused")

	botErr := FromServiceError(cause, "failed to load account")

	assert.False(t, botErr.IsUserError())
	assert.Equal(t, "Something went wrong. Please try again later.", botErr.UserMessage)
	assert.Equal(t, "failed to load account: connection refused", botErr.Error())
	assert.ErrorIs(t, botErr, cause)
}

func TestInteractionUser(t *testing.T) {
	member := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "111"}},
	}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "222"},
	}}
	empty := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}

	assert.Equal(t, "111", InteractionUserID(member))
	assert.Equal(t, "222", InteractionUserID(dm))
	assert.Equal(t, "", InteractionUserID(empty))
}

func TestOptionMap(t *testing.T) {
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "amount", Type: discordgo.ApplicationCommandOptionString, Value: "all"},
		{Name: "user", Type: discordgo.ApplicationCommandOptionUser, Value: "333"},
	}

	m := OptionMap(options)
	require.Len(t, m, 2)
	assert.Equal(t, "all", m["amount"].StringValue())
	assert.Nil(t, m["missing"])
}

func TestDeferred(t *testing.T) {
	assert.Nil(t, Deferred(nil))

	inner := NewUserError("nope", "rejected")
	err, deferred := UnwrapDeferred(Deferred(inner))
	assert.True(t, deferred)
	assert.Same(t, inner, err)

	err, deferred = UnwrapDeferred(inner)
	assert.False(t, deferred)
	assert.Same(t, inner, err)
}
