package checkout

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies checkout failures so the API layer can map them to
// transport status codes without string matching.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindNotFound
	KindConflict
	KindPriceChanged
	KindStockUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPriceChanged:
		return "price_changed"
	case KindStockUnavailable:
		return "stock_unavailable"
	}
	return "unknown"
}

// Error carries a failure kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func invalidArgumentf(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func priceChangedf(format string, args ...interface{}) error {
	return &Error{Kind: KindPriceChanged, Message: fmt.Sprintf(format, args...)}
}

func stockUnavailablef(format string, args ...interface{}) error {
	return &Error{Kind: KindStockUnavailable, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the failure kind from err, or 0 when err is not a
// checkout error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// IsInvalidArgument reports whether err is an InvalidArgument failure.
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a Conflict failure.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsPriceChanged reports whether err is a PriceChanged failure.
func IsPriceChanged(err error) bool { return KindOf(err) == KindPriceChanged }

// IsStockUnavailable reports whether err is a StockUnavailable failure.
func IsStockUnavailable(err error) bool { return KindOf(err) == KindStockUnavailable }
