package service

import (
	"context"
	"fmt"
	"math"

	"mikune/models"
)

// MaxPurchaseQuantity caps a single shop order
const MaxPurchaseQuantity = 10000

type shopService struct {
	uowFactory UnitOfWorkFactory
	opts       options
}

// NewShopService creates a new shop service
func NewShopService(uowFactory UnitOfWorkFactory, opts ...Option) ShopService {
	return &shopService{
		uowFactory: uowFactory,
		opts:       buildOptions(opts),
	}
}

func (s *shopService) BuyItem(ctx context.Context, userID, itemID string, quantity int64) (*models.ShopPurchaseResult, error) {
	item, ok := models.GetShopItem(itemID)
	if !ok {
		return nil, newEconomyError(KindNotFound, "That item isn't sold here.")
	}
	if quantity <= 0 {
		return nil, newEconomyError(KindInvalidAmount, "The quantity must be positive.")
	}
	if quantity > MaxPurchaseQuantity || quantity > math.MaxInt64/item.Price {
		return nil, newEconomyError(KindInvalidAmount, "You can buy at most %d at once.", MaxPurchaseQuantity)
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

	cost := item.Price * quantity
	if account.Balance < cost {
		return nil, newEconomyError(KindInsufficientFunds, "You need %d on hand and have %d.", cost, account.Balance)
	}

	balanceBefore := account.Balance
	account.Balance -= cost
	account.AddItem(itemID, quantity)

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	if err := recordChange(ctx, uow, userID, models.PoolBalance, balanceBefore, account.Balance, models.TransactionTypeShopPurchase, map[string]any{
		"item_id":  itemID,
		"quantity": quantity,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ShopPurchaseResult{
		Item:     item,
		Quantity: quantity,
		Cost:     cost,
		Balance:  account.Balance,
		Owned:    account.ItemCount(itemID),
	}, nil
}
