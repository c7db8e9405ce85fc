package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindBusinessRule
	KindRateLimit
	KindAuthorization
	KindNotFound
	KindRejectedContent
	KindConflict
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindRateLimit:
		return "rate_limit"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindRejectedContent:
		return "rejected_content"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	}
	return "unknown"
}

// Error is a rejection the caller is allowed to see. Reason is user facing.
type Error struct {
	Kind   Kind
	Reason string
	Field  string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Reason, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is matches on kind and reason so callers can compare against a template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

func Validation(field, reason string) *Error {
	return &Error{Kind: KindValidation, Field: field, Reason: reason}
}
func BusinessRule(reason string) *Error { return &Error{Kind: KindBusinessRule, Reason: reason} }
func RateLimit(reason string) *Error    { return &Error{Kind: KindRateLimit, Reason: reason} }
func Unauthorized(reason string) *Error { return &Error{Kind: KindAuthorization, Reason: reason} }
func NotFound(reason string) *Error     { return &Error{Kind: KindNotFound, Reason: reason} }
func Conflict(reason string) *Error     { return &Error{Kind: KindConflict, Reason: reason} }

// Unauthenticated is a failed re-check of the caller's own password.
func Unauthenticated(reason string) *Error { return &Error{Kind: KindAuthentication, Reason: reason} }

// Rejected marks text refused by the text validator.
func Rejected(field, reason string) *Error {
	return &Error{Kind: KindRejectedContent, Field: field, Reason: reason}
}

// AsError unwraps err into a *Error when it is one.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	de, ok := AsError(err)
	return ok && de.Kind == k
}

const (
	ReasonDailyOrderCap      = "The app has reached its daily order creation limit."
	ReasonDailyReviewCap     = "The app has reached its daily review creation limit."
	ReasonOrderOnTheWay      = "Order on the way, information cannot be modified."
	ReasonOrderDispatched    = "Once dispatched, orders cannot be cancelled."
	ReasonStateBackwards     = "Order progress cannot move backwards."
	ReasonAlreadyInCart      = "The product is already in your cart."
	ReasonAlreadyInFavorites = "The product is already in your favorites."
	ReasonAlreadyReported    = "Already reported."
	ReasonAlreadyReviewed    = "You already reviewed this product."
	ReasonInappropriate      = "Content was detected as inappropriate."
	ReasonInappropriateName  = "Username was detected as inappropriate."
	ReasonCouponNotOwned     = "The coupon does not belong to you."
	ReasonStaffOnly          = "Only staff members can perform this action."
	ReasonBadCredentials     = "Invalid username or password."
	ReasonDailySignupCap     = "The app has reached its daily account creation limit."
	ReasonUnderage           = "You must be at least 18 years old to register."
	ReasonIncorrectPassword  = "Incorrect password."
)

func ReasonTooManyActiveOrders(max int) string {
	return fmt.Sprintf("You cannot have more than %d active orders.", max)
}

func ReasonCartFull(max int) string {
	return fmt.Sprintf("You cannot add more than %d products to your cart.", max)
}

func ReasonFavoritesFull(max int) string {
	return fmt.Sprintf("You cannot add more than %d products to your favorites.", max)
}
