package service_test

import (
	"testing"
	"time"

	"mikune/models"
	"mikune/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewards_DailyCooldown(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 0))
	e.rng.ints = []int{0, 400}

	first, err := e.rewards.Daily(e.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), first.Base)
	assert.Equal(t, int64(2), first.Bonus)
	assert.Equal(t, int64(102), first.Total)
	assert.Equal(t, int64(102), first.Balance)
	assert.Equal(t, int64(25), first.XPGained)

	e.clock.Advance(time.Hour)
	_, err = e.rewards.Daily(e.ctx, "alice")
	econErr := requireKind(t, err, service.KindCooldownActive)
	assert.Equal(t, 23*time.Hour, econErr.Remaining)
	assert.Equal(t, "You already used your daily reward. Try again in 23h 0m 0s.", econErr.Reason)

	e.clock.Advance(23 * time.Hour)
	second, err := e.rewards.Daily(e.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(500), second.Base)
	assert.Equal(t, int64(102+510), second.Balance)
}

func TestRewards_CooldownsAreIndependent(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 0))

	_, err := e.rewards.Daily(e.ctx, "alice")
	require.NoError(t, err)
	_, err = e.rewards.Weekly(e.ctx, "alice")
	require.NoError(t, err)
	_, err = e.rewards.Work(e.ctx, "alice")
	require.NoError(t, err)

	stored := e.load(t, "alice")
	require.NotNil(t, stored.LastDaily)
	require.NotNil(t, stored.LastWeekly)
	require.NotNil(t, stored.LastWork)
	assert.Nil(t, stored.LastRob)
	assert.Equal(t, int64(1), stored.Stats.Worked)
}

func TestRewards_LevelBonusScalesWithLevel(t *testing.T) {
	e := newEconomy(t)
	a := account("alice", 0, 0)
	a.Level = 10
	e.seed(t, a)
	e.rng.ints = []int{450}

	result, err := e.rewards.Weekly(e.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(950), result.Base)
	assert.Equal(t, int64(950*10/25), result.Bonus)
	assert.Equal(t, int64(1330), result.Total)
}

func TestRewards_WorkUsesJob(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("alice", 0, 0))

	job, err := e.rewards.SetJob(e.ctx, "alice", "farmer")
	require.NoError(t, err)
	assert.Equal(t, "agriculture", job.Skill)

	e.rng.ints = []int{20}
	result, err := e.rewards.Work(e.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Base)
	assert.Equal(t, int64(1), result.Bonus)

	// Farmers wait 30 minutes instead of an hour
	e.clock.Advance(29 * time.Minute)
	_, err = e.rewards.Work(e.ctx, "alice")
	requireKind(t, err, service.KindCooldownActive)

	e.clock.Advance(time.Minute)
	_, err = e.rewards.Work(e.ctx, "alice")
	require.NoError(t, err)

	stored := e.load(t, "alice")
	assert.Equal(t, int64(2), stored.Stats.Worked)
	assert.Equal(t, int64(2), stored.JobSkills["agriculture"])

	_, err = e.rewards.SetJob(e.ctx, "alice", "astronaut")
	requireKind(t, err, service.KindNotFound)
}

func TestRewards_XPLevelsUp(t *testing.T) {
	e := newEconomy(t)
	a := account("alice", 0, 0)
	a.XP = 90
	e.seed(t, a)

	result, err := e.rewards.Daily(e.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.Level)

	stored := e.load(t, "alice")
	assert.Equal(t, 2, stored.Level)
	assert.Equal(t, int64(15), stored.XP)
}

func TestRewards_RobSuccess(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("thief", 500, 0), account("mark", 1000, 0))
	e.rng.floats = []float64{0.0, 0.0}

	result, err := e.rewards.Rob(e.ctx, "thief", "mark")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, float64(40), result.ChancePercent)
	assert.Equal(t, int64(100), result.Amount)
	assert.Equal(t, int64(600), result.ThiefBalance)

	thief, mark := e.load(t, "thief"), e.load(t, "mark")
	assert.Equal(t, int64(900), mark.Balance)
	assert.Equal(t, int64(100), thief.Stats.Stolen)
	assert.Equal(t, int64(100), mark.Stats.StolenFrom)
	require.NotNil(t, thief.LastRob)

	_, err = e.rewards.Rob(e.ctx, "thief", "mark")
	requireKind(t, err, service.KindCooldownActive)
}

func TestRewards_RobFailurePaysFineToTarget(t *testing.T) {
	e := newEconomy(t)
	e.seed(t, account("thief", 500, 0), account("mark", 1000, 0))
	e.rng.floats = []float64{0.9}
	e.rng.ints = []int{50}

	result, err := e.rewards.Rob(e.ctx, "thief", "mark")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, int64(150), result.Amount)
	assert.Equal(t, int64(350), result.ThiefBalance)
	assert.Equal(t, int64(1150), e.load(t, "mark").Balance)

	history, err := e.accounts.History(e.ctx, "thief", 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.TransactionTypeRobLoss, history[0].TransactionType)
}

func TestRewards_RobRejections(t *testing.T) {
	e := newEconomy(t)
	e.seed(t,
		account("broke", 199, 0),
		account("thief", 500, 0),
		account("pauper", 99, 5000),
	)

	_, err := e.rewards.Rob(e.ctx, "thief", "thief")
	requireKind(t, err, service.KindInvalidTarget)

	_, err = e.rewards.Rob(e.ctx, "broke", "thief")
	requireKind(t, err, service.KindInsufficientFunds)

	_, err = e.rewards.Rob(e.ctx, "thief", "pauper")
	requireKind(t, err, service.KindInvalidTarget)

	// Rejected attempts do not start the cooldown
	assert.Nil(t, e.load(t, "thief").LastRob)
}

func TestRobChance(t *testing.T) {
	assert.Equal(t, float64(40), service.RobChance(1, 1))
	assert.Equal(t, float64(45), service.RobChance(11, 1))
	assert.Equal(t, float64(10), service.RobChance(1, 200))
	assert.Equal(t, float64(75), service.RobChance(200, 1))
}

func TestLevelBonus(t *testing.T) {
	assert.Equal(t, int64(2), service.LevelBonus(100, 1, 50))
	assert.Equal(t, int64(0), service.LevelBonus(49, 1, 50))
	assert.Equal(t, int64(250), service.LevelBonus(250, 100, 100))
}
