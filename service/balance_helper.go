package service

import (
	"context"
	"fmt"

	"mikune/events"
	"mikune/models"
)

// RecordBalanceChange records a ledger entry and emits the matching events.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Flushed after the unit of work commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.UserID,
		Pool:            history.Pool,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	})

	if history.TransactionType == models.TransactionTypeInitial {
		uow.EventBus().Publish(events.UserCreatedEvent{UserID: history.UserID})
	}

	return nil
}

// recordChange builds a ledger entry for a single pool movement
func recordChange(ctx context.Context, uow UnitOfWork, userID string, pool models.Pool, before, after int64, txType models.TransactionType, metadata map[string]any) error {
	return RecordBalanceChange(ctx, uow, &models.BalanceHistory{
		UserID:              userID,
		Pool:                pool,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ChangeAmount:        after - before,
		TransactionType:     txType,
		TransactionMetadata: metadata,
	})
}
