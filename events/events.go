package events

import (
	"context"
	"sync"
	"time"

	"mikune/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeUserCreated       EventType = "user_created"
	EventTypeLoanIssued        EventType = "loan_issued"
	EventTypeLoanRepaid        EventType = "loan_repaid"
	EventTypePropertyPurchased EventType = "property_purchased"
	EventTypePropertySold      EventType = "property_sold"
	EventTypeInterestApplied   EventType = "interest_applied"
)

// AllEventTypes lists every event type the economy emits
var AllEventTypes = []EventType{
	EventTypeBalanceChange,
	EventTypeUserCreated,
	EventTypeLoanIssued,
	EventTypeLoanRepaid,
	EventTypePropertyPurchased,
	EventTypePropertySold,
	EventTypeInterestApplied,
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          string                 `json:"user_id"`
	Pool            models.Pool            `json:"pool"`
	OldBalance      int64                  `json:"old_balance"`
	NewBalance      int64                  `json:"new_balance"`
	TransactionType models.TransactionType `json:"transaction_type"`
	ChangeAmount    int64                  `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new account creation
type UserCreatedEvent struct {
	UserID string `json:"user_id"`
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// LoanIssuedEvent represents a newly granted loan
type LoanIssuedEvent struct {
	UserID  string    `json:"user_id"`
	LoanID  string    `json:"loan_id"`
	Amount  int64     `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

func (e LoanIssuedEvent) Type() EventType {
	return EventTypeLoanIssued
}

// LoanRepaidEvent represents a repayment against outstanding loans
type LoanRepaidEvent struct {
	UserID        string `json:"user_id"`
	Paid          int64  `json:"paid"`
	LoansClosed   int    `json:"loans_closed"`
	RemainingDebt string `json:"remaining_debt"`
}

func (e LoanRepaidEvent) Type() EventType {
	return EventTypeLoanRepaid
}

// PropertyPurchasedEvent represents a property purchase
type PropertyPurchasedEvent struct {
	UserID     string `json:"user_id"`
	PropertyID string `json:"property_id"`
	Price      int64  `json:"price"`
}

func (e PropertyPurchasedEvent) Type() EventType {
	return EventTypePropertyPurchased
}

// PropertySoldEvent represents a property sold back to the bank
type PropertySoldEvent struct {
	UserID     string `json:"user_id"`
	PropertyID string `json:"property_id"`
	Proceeds   int64  `json:"proceeds"`
}

func (e PropertySoldEvent) Type() EventType {
	return EventTypePropertySold
}

// InterestAppliedEvent represents savings interest credited to a bank
type InterestAppliedEvent struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

func (e InterestAppliedEvent) Type() EventType {
	return EventTypeInterestApplied
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// SubscribeAll adds a handler for every economy event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the number of events waiting for a flush
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	// Handlers outlive the command that raised the event
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
