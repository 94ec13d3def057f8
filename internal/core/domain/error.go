package domain

import (
	"errors"
	"fmt"

	"github.com/govalues/decimal"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")
	ErrOrderNotFound   = errors.New("order not found")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrPayeeNotFound   = errors.New("payee not found")

	// * Communication errors.
	ErrBadRequest           = errors.New("error parsing request")
	ErrInvalidAmount        = errors.New("amount must be positive with at most two decimal places")
	ErrInvalidPaymentMethod = errors.New("payment method is not supported")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * State errors.
	ErrOrderAlreadyClaimed = errors.New("order already claimed")
	ErrOrderExpired        = errors.New("order has expired")
	ErrOrderNotGrabbed     = errors.New("order is not in grabbed state")
	ErrOrderNotManual      = errors.New("order is not waiting for manual processing")
	ErrStatusTransition    = errors.New("order status transition is not allowed")

	// * Business errors.
	ErrInsufficientQuota        = errors.New("payee quota is not enough")
	ErrPayeeDisabled            = errors.New("payee is disabled")
	ErrAmountExceedsOrder       = errors.New("paid amount exceeds order amount")
	ErrAmountExceedsOutstanding = errors.New("paid amount exceeds loan outstanding")
	ErrNotEnoughPeriods         = errors.New("loan has not enough open periods")
	ErrManualSplitMismatch      = errors.New("manual split does not match schedule")
)

// ErrorKind is a machine readable class of an error.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindBusiness      ErrorKind = "business"
	KindInternal      ErrorKind = "internal"
)

var errorKinds = []struct {
	kind ErrorKind
	errs []error
}{
	{KindValidation, []error{ErrBadRequest, ErrInvalidAmount, ErrInvalidPaymentMethod}},
	{KindAuthorization, []error{ErrTokenCreation, ErrExpiredToken, ErrInvalidToken,
		ErrEmptyAuthorizationHeader, ErrInvalidAuthorizationHeader, ErrInvalidAuthorizationType,
		ErrUnauthorized, ErrForbidden}},
	{KindNotFound, []error{ErrDataNotFound, ErrOrderNotFound, ErrLoanNotFound, ErrPayeeNotFound}},
	{KindConflict, []error{ErrConflictingData, ErrOrderAlreadyClaimed, ErrOrderExpired,
		ErrOrderNotGrabbed, ErrOrderNotManual, ErrStatusTransition, ErrNoUpdatedData}},
	{KindBusiness, []error{ErrInsufficientQuota, ErrPayeeDisabled, ErrAmountExceedsOrder,
		ErrAmountExceedsOutstanding, ErrNotEnoughPeriods, ErrManualSplitMismatch}},
}

// Kind classifies err. Unknown errors are internal.
func Kind(err error) ErrorKind {
	for _, k := range errorKinds {
		for _, e := range k.errs {
			if errors.Is(err, e) {
				return k.kind
			}
		}
	}
	return KindInternal
}

// SplitMismatchError names the period that does not carry the expected share of a manual split.
type SplitMismatchError struct {
	PeriodIndex int
	Expected    decimal.Decimal
	Actual      decimal.Decimal
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("period %d: expected capital %s, actual %s", e.PeriodIndex, e.Expected, e.Actual)
}

func (e *SplitMismatchError) Unwrap() error {
	return ErrManualSplitMismatch
}
