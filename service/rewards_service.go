package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"mikune/models"
	"mikune/utils"
)

// rewardRule describes a cooldown-gated payout
type rewardRule struct {
	action        CooldownAction
	txType        models.TransactionType
	label         string
	min, max      int64
	cooldown      time.Duration
	levelDivisor  int64
	xp            int64
	incrementWork bool
}

var (
	dailyRule = rewardRule{
		action: CooldownDaily, txType: models.TransactionTypeDaily, label: "your daily reward",
		min: 100, max: 500, cooldown: DailyCooldown, levelDivisor: 50, xp: 25,
	}
	weeklyRule = rewardRule{
		action: CooldownWeekly, txType: models.TransactionTypeWeekly, label: "your weekly reward",
		min: 500, max: 2000, cooldown: WeeklyCooldown, levelDivisor: 25, xp: 100,
	}
	workRule = rewardRule{
		action: CooldownWork, txType: models.TransactionTypeWork, label: "work",
		min: 50, max: 250, cooldown: WorkCooldown, levelDivisor: 100, xp: 10, incrementWork: true,
	}
)

// Rob thresholds
const (
	RobMinThiefBalance  = 200
	RobMinTargetBalance = 100
)

// LevelBonus is reward * level / divisor, truncated
func LevelBonus(reward int64, level int, divisor int64) int64 {
	return reward * int64(level) / divisor
}

// RobChance is the success percentage for a thief against a target
func RobChance(thiefLevel, targetLevel int) float64 {
	chance := 40 + float64(thiefLevel)*0.5 - float64(targetLevel)*0.5
	return max(10, min(chance, 75))
}

type rewardService struct {
	uowFactory UnitOfWorkFactory
	opts       options
}

// NewRewardService creates a new reward service
func NewRewardService(uowFactory UnitOfWorkFactory, opts ...Option) RewardService {
	return &rewardService{
		uowFactory: uowFactory,
		opts:       buildOptions(opts),
	}
}

func (s *rewardService) Daily(ctx context.Context, userID string) (*models.RewardResult, error) {
	return s.claim(ctx, userID, dailyRule)
}

func (s *rewardService) Weekly(ctx context.Context, userID string) (*models.RewardResult, error) {
	return s.claim(ctx, userID, weeklyRule)
}

func (s *rewardService) Work(ctx context.Context, userID string) (*models.RewardResult, error) {
	return s.claim(ctx, userID, workRule)
}

func (s *rewardService) SetJob(ctx context.Context, userID, jobID string) (*models.Job, error) {
	job, ok := models.GetJob(jobID)
	if !ok {
		return nil, newEconomyError(KindNotFound, "That job doesn't exist.")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := ensureAccount(ctx, uow, userID, s.opts.now())
	if err != nil {
		return nil, err
	}

	account.Job = &job.ID
	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &job, nil
}

// claim pays a reward when its cooldown has elapsed
func (s *rewardService) claim(ctx context.Context, userID string, rule rewardRule) (*models.RewardResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := s.opts.now()
	account, err := ensureAccount(ctx, uow, userID, now)
	if err != nil {
		return nil, err
	}

	lo, hi, cooldown := rule.min, rule.max, rule.cooldown
	var job *models.Job
	if rule.incrementWork && account.Job != nil {
		if j, ok := models.GetJob(*account.Job); ok {
			job = &j
			lo, hi = j.MinPay, j.MaxPay
			cooldown = time.Duration(j.CooldownMinutes) * time.Minute
		}
	}

	if remaining := CooldownRemaining(account, rule.action, cooldown, now); remaining > 0 {
		return nil, cooldownError(rule.label, remaining, utils.FormatDuration(remaining))
	}

	base := randomBetween(s.opts.rng, lo, hi)
	bonus := LevelBonus(base, account.Level, rule.levelDivisor)
	total := base + bonus

	balanceBefore := account.Balance
	account.Balance += total
	StampCooldown(account, rule.action, now)
	if rule.incrementWork {
		account.Stats.Worked++
		if job != nil {
			account.JobSkills[job.Skill]++
		}
	}
	leveledUp, level := grantXP(account, rule.xp)

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	metadata := map[string]any{"base": base, "level_bonus": bonus}
	if job != nil {
		metadata["job"] = job.ID
	}
	if err := recordChange(ctx, uow, userID, models.PoolBalance, balanceBefore, account.Balance, rule.txType, metadata); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.RewardResult{
		Type:      rule.txType,
		Base:      base,
		Bonus:     bonus,
		Total:     total,
		Balance:   account.Balance,
		XPGained:  rule.xp,
		LeveledUp: leveledUp,
		Level:     level,
	}, nil
}

func (s *rewardService) Rob(ctx context.Context, thiefID, targetID string) (*models.RobResult, error) {
	if thiefID == targetID {
		return nil, newEconomyError(KindInvalidTarget, "You can't rob yourself.")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	now := s.opts.now()
	thief, err := ensureAccount(ctx, uow, thiefID, now)
	if err != nil {
		return nil, err
	}

	if remaining := CooldownRemaining(thief, CooldownRob, RobCooldown, now); remaining > 0 {
		return nil, cooldownError("rob", remaining, utils.FormatDuration(remaining))
	}
	if thief.Balance < RobMinThiefBalance {
		return nil, newEconomyError(KindInsufficientFunds, "You need at least %d on hand to attempt a robbery.", RobMinThiefBalance)
	}

	target, err := ensureAccount(ctx, uow, targetID, now)
	if err != nil {
		return nil, err
	}
	if target.Balance < RobMinTargetBalance {
		return nil, newEconomyError(KindInvalidTarget, "It's not worth robbing someone with so little money.")
	}

	chance := RobChance(thief.Level, target.Level)
	result := &models.RobResult{ChancePercent: chance}
	thiefBefore, targetBefore := thief.Balance, target.Balance

	if s.opts.rng.Float64()*100 < chance {
		stealPercent := 0.1 + s.opts.rng.Float64()*0.2
		result.Success = true
		result.Amount = int64(float64(target.Balance) * stealPercent)
		target.Balance -= result.Amount
		thief.Balance += result.Amount
		thief.Stats.Stolen += result.Amount
		target.Stats.StolenFrom += result.Amount
	} else {
		result.Amount = min(thief.Balance, randomBetween(s.opts.rng, 100, 300))
		thief.Balance -= result.Amount
		target.Balance += result.Amount
	}
	StampCooldown(thief, CooldownRob, now)
	result.ThiefBalance = thief.Balance

	if err := saveAccount(ctx, uow, thief); err != nil {
		return nil, err
	}
	if err := saveAccount(ctx, uow, target); err != nil {
		return nil, err
	}

	thiefType, targetType := models.TransactionTypeRobGain, models.TransactionTypeRobLoss
	if !result.Success {
		thiefType, targetType = models.TransactionTypeRobLoss, models.TransactionTypeRobGain
	}
	if err := recordChange(ctx, uow, thiefID, models.PoolBalance, thiefBefore, thief.Balance, thiefType, map[string]any{
		"target_id": targetID,
		"success":   result.Success,
	}); err != nil {
		return nil, err
	}
	if err := recordChange(ctx, uow, targetID, models.PoolBalance, targetBefore, target.Balance, targetType, map[string]any{
		"thief_id": thiefID,
		"success":  result.Success,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"thief_id":  thiefID,
		"target_id": targetID,
		"success":   result.Success,
		"amount":    result.Amount,
	}).Info("Robbery attempted")

	return result, nil
}
