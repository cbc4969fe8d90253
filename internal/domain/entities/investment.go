package entities

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Monetary amounts must fit NUMERIC(28,10).
const (
	AmountScale         = 10
	AmountIntegerDigits = 18
)

// TVPIScale is the number of fractional digits TVPI is rounded to
const TVPIScale int32 = 16

// Investment represents an investment vehicle and its capital figures
type Investment struct {
	ID                   int64           `json:"id" db:"id"`
	Name                 string          `json:"name" db:"name"`
	CommittedCapital     decimal.Decimal `json:"committedCapital" db:"committed_capital"`
	DistributedCapital   decimal.Decimal `json:"distributedCapital" db:"distributed_capital"`
	CurrentNetAssetValue decimal.Decimal `json:"currentNetAssetValue" db:"current_net_asset_value"`
	CreatedAt            time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time       `json:"updatedAt" db:"updated_at"`
}

// NewInvestment builds an unsaved investment. The name must not be blank,
// committed capital must not be negative and every amount must be within
// bounds; the store assigns the ID.
func NewInvestment(name string, committed, distributed, nav decimal.Decimal) (*Investment, error) {
	inv := &Investment{
		Name:                 name,
		CommittedCapital:     committed,
		DistributedCapital:   distributed,
		CurrentNetAssetValue: nav,
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks the creation invariants
func (i *Investment) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return InvalidInvestment("Investment name is required")
	}
	if i.CommittedCapital.IsNegative() {
		return InvalidInvestment("Committed capital cannot be negative")
	}
	return i.CheckAmountBounds()
}

// CheckAmountBounds rejects amounts with more than AmountScale fractional
// digits or more than AmountIntegerDigits integer digits.
func (i *Investment) CheckAmountBounds() error {
	amounts := []struct {
		label string
		value decimal.Decimal
	}{
		{"Committed capital", i.CommittedCapital},
		{"Distributed capital", i.DistributedCapital},
		{"Current net asset value", i.CurrentNetAssetValue},
	}
	for _, a := range amounts {
		if !AmountWithinBounds(a.value) {
			return InvalidInvestment(AmountOutOfBoundsMessage(a.label))
		}
	}
	return nil
}

// AmountOutOfBoundsMessage is the validation message for an amount that
// does not fit the storage precision.
func AmountOutOfBoundsMessage(label string) string {
	return fmt.Sprintf("%s must have at most %d decimal places and %d integer digits",
		label, AmountScale, AmountIntegerDigits)
}

// AmountWithinBounds reports whether v fits NUMERIC(28,10) without rounding.
// It inspects the coefficient and exponent only, so huge exponents stay cheap.
func AmountWithinBounds(v decimal.Decimal) bool {
	if v.IsZero() {
		return true
	}

	digits := new(big.Int).Abs(v.Coefficient()).String()
	n := int64(len(digits))
	exp := int64(v.Exponent())

	if n+exp > AmountIntegerDigits {
		return false
	}
	if exp >= -AmountScale {
		return true
	}

	// the surplus fractional digits must all be trailing zeros
	excess := -exp - AmountScale
	if excess >= n {
		return false
	}
	return strings.TrimRight(digits[n-excess:], "0") == ""
}

// Rename changes the display label
func (i *Investment) Rename(name string) {
	i.Name = name
	i.touch()
}

// SetCommittedCapital replaces the committed capital. Negative and zero
// values are accepted here; only construction enforces the lower bound.
func (i *Investment) SetCommittedCapital(amount decimal.Decimal) {
	i.CommittedCapital = amount
	i.touch()
}

// SetDistributedCapital replaces the cumulative distributions
func (i *Investment) SetDistributedCapital(amount decimal.Decimal) {
	i.DistributedCapital = amount
	i.touch()
}

// SetCurrentNetAssetValue replaces the current NAV
func (i *Investment) SetCurrentNetAssetValue(amount decimal.Decimal) {
	i.CurrentNetAssetValue = amount
	i.touch()
}

// TotalValue returns NAV plus distributions
func (i *Investment) TotalValue() decimal.Decimal {
	return i.CurrentNetAssetValue.Add(i.DistributedCapital)
}

// CalculateTVPI returns (NAV + distributed) / committed, rounded half up to
// TVPIScale fractional digits.
func (i *Investment) CalculateTVPI() (decimal.Decimal, error) {
	if i.CommittedCapital.IsZero() {
		return decimal.Zero, ErrZeroCommittedCapital
	}
	return i.TotalValue().DivRound(i.CommittedCapital, TVPIScale), nil
}

// Clone returns a copy that shares no state with the receiver
func (i *Investment) Clone() *Investment {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

func (i *Investment) touch() {
	if !i.UpdatedAt.IsZero() || !i.CreatedAt.IsZero() {
		i.UpdatedAt = time.Now().UTC()
	}
}
