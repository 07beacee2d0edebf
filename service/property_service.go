package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"mikune/config"
	"mikune/events"
	"mikune/models"
)

type propertyService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
	opts       options
}

// NewPropertyService creates a new property service
func NewPropertyService(uowFactory UnitOfWorkFactory, cfg *config.Config, opts ...Option) PropertyService {
	return &propertyService{
		uowFactory: uowFactory,
		config:     cfg,
		opts:       buildOptions(opts),
	}
}

// checkPurchase validates a property purchase against an account
func checkPurchase(account *models.Account, propertyID string) (models.Property, error) {
	property, ok := models.GetProperty(propertyID)
	if !ok {
		return models.Property{}, newEconomyError(KindNotFound, "That property doesn't exist.")
	}
	if account.OwnsProperty(propertyID) {
		return models.Property{}, newEconomyError(KindAlreadyOwned, "You already own this property.")
	}
	if account.NetWorth() < property.Price {
		return models.Property{}, newEconomyError(KindInsufficientFunds, "You don't have enough money. You need %d and have %d.", property.Price, account.NetWorth())
	}
	if account.ItemCount(models.ItemPropertyDeed) < 1 {
		return models.Property{}, newEconomyError(KindPrerequisiteMissing, "You need a Property Deed to buy real estate.")
	}
	return property, nil
}

func (s *propertyService) CanAfford(ctx context.Context, userID, propertyID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := ensureAccount(ctx, uow, userID, s.opts.now())
	if err != nil {
		return err
	}

	if _, err := checkPurchase(account, propertyID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *propertyService) Buy(ctx context.Context, userID, propertyID string) (*models.PropertyPurchaseResult, error) {
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

	property, err := checkPurchase(account, propertyID)
	if err != nil {
		return nil, err
	}

	// Balance first, bank covers the shortfall
	fromBalance := min(account.Balance, property.Price)
	fromBank := property.Price - fromBalance

	balanceBefore, bankBefore := account.Balance, account.Bank
	account.Balance -= fromBalance
	account.Bank -= fromBank
	account.AddItem(models.ItemPropertyDeed, -1)
	account.Properties[propertyID] = models.OwnedProperty{PurchasedAt: models.Timestamp{Time: now}}

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}

	metadata := map[string]any{"property_id": propertyID, "price": property.Price}
	if fromBalance > 0 {
		if err := recordChange(ctx, uow, userID, models.PoolBalance, balanceBefore, account.Balance, models.TransactionTypePropertyPurchase, metadata); err != nil {
			return nil, err
		}
	}
	if fromBank > 0 {
		if err := recordChange(ctx, uow, userID, models.PoolBank, bankBefore, account.Bank, models.TransactionTypePropertyPurchase, metadata); err != nil {
			return nil, err
		}
	}
	uow.EventBus().Publish(events.PropertyPurchasedEvent{
		UserID:     userID,
		PropertyID: propertyID,
		Price:      property.Price,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"property_id": propertyID,
		"from_bank":   fromBank,
	}).Info("Property purchased")

	return &models.PropertyPurchaseResult{
		Property:    property,
		FromBalance: fromBalance,
		FromBank:    fromBank,
		Balance:     account.Balance,
		Bank:        account.Bank,
	}, nil
}

// sortedPropertyIDs returns owned property ids in a stable order
func sortedPropertyIDs(account *models.Account) []string {
	ids := make([]string, 0, len(account.Properties))
	for id := range account.Properties {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// nextCollection returns how long until a property can pay out again
func nextCollection(account *models.Account, property models.Property, now time.Time) time.Duration {
	last, ok := account.LastPropertyCollection[property.ID]
	if !ok {
		return 0
	}
	remaining := time.Duration(property.CollectionHours)*time.Hour - now.Sub(last.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *propertyService) CollectIncome(ctx context.Context, userID string) (*models.IncomeCollection, error) {
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

	collection := &models.IncomeCollection{}
	for _, id := range sortedPropertyIDs(account) {
		property, ok := models.GetProperty(id)
		if !ok {
			continue
		}
		if nextCollection(account, property, now) > 0 {
			continue
		}
		collection.Total += property.Income
		collection.Collected = append(collection.Collected, models.PropertyIncome{Property: property, Amount: property.Income})
		account.LastPropertyCollection[id] = models.Timestamp{Time: now}
	}

	if collection.Total > 0 {
		balanceBefore := account.Balance
		account.Balance += collection.Total

		if err := saveAccount(ctx, uow, account); err != nil {
			return nil, err
		}
		if err := recordChange(ctx, uow, userID, models.PoolBalance, balanceBefore, account.Balance, models.TransactionTypePropertyIncome, map[string]any{
			"properties": len(collection.Collected),
		}); err != nil {
			return nil, err
		}
	}
	collection.Balance = account.Balance

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return collection, nil
}

// ResalePrice is what the bank pays back for a property
func ResalePrice(price int64, rate float64) int64 {
	return decimal.NewFromInt(price).Mul(decimal.NewFromFloat(rate)).Floor().IntPart()
}

func (s *propertyService) Sell(ctx context.Context, userID, propertyID string) (*models.PropertySaleResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := ensureAccount(ctx, uow, userID, s.opts.now())
	if err != nil {
		return nil, err
	}

	if !account.OwnsProperty(propertyID) {
		return nil, newEconomyError(KindNotFound, "You don't own that property.")
	}
	property, ok := models.GetProperty(propertyID)
	if !ok {
		return nil, newEconomyError(KindNotFound, "That property doesn't exist.")
	}

	proceeds := ResalePrice(property.Price, s.config.PropertyResaleRate)
	balanceBefore := account.Balance
	account.Balance += proceeds
	delete(account.Properties, propertyID)
	delete(account.LastPropertyCollection, propertyID)

	if err := saveAccount(ctx, uow, account); err != nil {
		return nil, err
	}
	if err := recordChange(ctx, uow, userID, models.PoolBalance, balanceBefore, account.Balance, models.TransactionTypePropertySale, map[string]any{
		"property_id": propertyID,
	}); err != nil {
		return nil, err
	}
	uow.EventBus().Publish(events.PropertySoldEvent{
		UserID:     userID,
		PropertyID: propertyID,
		Proceeds:   proceeds,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PropertySaleResult{
		Property: property,
		Proceeds: proceeds,
		Balance:  account.Balance,
	}, nil
}

func (s *propertyService) ListOwned(ctx context.Context, userID string) ([]models.OwnedPropertyView, error) {
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

	var owned []models.OwnedPropertyView
	for _, id := range sortedPropertyIDs(account) {
		property, ok := models.GetProperty(id)
		if !ok {
			continue
		}
		owned = append(owned, models.OwnedPropertyView{
			Property:       property,
			PurchasedAt:    account.Properties[id].PurchasedAt.Time,
			NextCollection: nextCollection(account, property, now),
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return owned, nil
}
