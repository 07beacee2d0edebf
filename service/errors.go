package service

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies a rejected economy operation
type ErrorKind string

const (
	KindInsufficientFunds   ErrorKind = "insufficient_funds"
	KindInvalidAmount       ErrorKind = "invalid_amount"
	KindInvalidTarget       ErrorKind = "invalid_target"
	KindCooldownActive      ErrorKind = "cooldown_active"
	KindAlreadyOwned        ErrorKind = "already_owned"
	KindPrerequisiteMissing ErrorKind = "prerequisite_missing"
	KindLoanLimitExceeded   ErrorKind = "loan_limit_exceeded"
	KindOverdueBlock        ErrorKind = "overdue_block"
	KindNotFound            ErrorKind = "not_found"
)

// EconomyError is a domain validation failure. Reason is safe to show to the user.
type EconomyError struct {
	Kind      ErrorKind
	Reason    string
	Remaining time.Duration // set for CooldownActive
}

func (e *EconomyError) Error() string {
	if e.Reason == "" {
		return string(e.Kind)
	}
	return e.Reason
}

// Is matches any EconomyError of the same kind, so sentinels work with errors.Is
func (e *EconomyError) Is(target error) bool {
	var t *EconomyError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInsufficientFunds   = &EconomyError{Kind: KindInsufficientFunds}
	ErrInvalidAmount       = &EconomyError{Kind: KindInvalidAmount}
	ErrInvalidTarget       = &EconomyError{Kind: KindInvalidTarget}
	ErrCooldownActive      = &EconomyError{Kind: KindCooldownActive}
	ErrAlreadyOwned        = &EconomyError{Kind: KindAlreadyOwned}
	ErrPrerequisiteMissing = &EconomyError{Kind: KindPrerequisiteMissing}
	ErrLoanLimitExceeded   = &EconomyError{Kind: KindLoanLimitExceeded}
	ErrOverdueBlock        = &EconomyError{Kind: KindOverdueBlock}
	ErrNotFound            = &EconomyError{Kind: KindNotFound}
)

func newEconomyError(kind ErrorKind, format string, args ...any) *EconomyError {
	return &EconomyError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func cooldownError(action string, remaining time.Duration, wait string) *EconomyError {
	return &EconomyError{
		Kind:      KindCooldownActive,
		Reason:    fmt.Sprintf("You already used %s. Try again in %s.", action, wait),
		Remaining: remaining,
	}
}

// AsEconomyError extracts a domain failure from err
func AsEconomyError(err error) (*EconomyError, bool) {
	var econErr *EconomyError
	if errors.As(err, &econErr) {
		return econErr, true
	}
	return nil, false
}
