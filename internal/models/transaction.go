package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of ledger entry kinds.
type TransactionType string

const (
	TransactionPurchase   TransactionType = "purchase"
	TransactionUsage      TransactionType = "usage"
	TransactionAdjustment TransactionType = "adjustment"
	TransactionDamage     TransactionType = "damage"
	TransactionReturn     TransactionType = "return"
	TransactionInitial    TransactionType = "initial"
)

// AllTransactionTypes lists every TransactionType. Each one must have an entry in transactionSigns.
var AllTransactionTypes = []TransactionType{
	TransactionPurchase,
	TransactionUsage,
	TransactionAdjustment,
	TransactionDamage,
	TransactionReturn,
	TransactionInitial,
}

type signPolicy int

const (
	signAdd signPolicy = iota + 1
	signSubtract
	signCallerSupplied
)

var transactionSigns = map[TransactionType]signPolicy{
	TransactionPurchase:   signAdd,
	TransactionUsage:      signSubtract,
	TransactionAdjustment: signCallerSupplied,
	TransactionDamage:     signSubtract,
	TransactionReturn:     signSubtract,
	TransactionInitial:    signAdd,
}

var (
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrInvalidMagnitude       = errors.New("invalid quantity")
)

// ParseTransactionType accepts only members of AllTransactionTypes.
func ParseTransactionType(value string) (TransactionType, error) {
	t := TransactionType(value)
	if _, ok := transactionSigns[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionType, value)
	}
	return t, nil
}

// CallerSelectable reports whether API callers may post this type. Initial entries
// are only written when an item is created.
func (t TransactionType) CallerSelectable() bool {
	_, known := transactionSigns[t]
	return known && t != TransactionInitial
}

// QuantityScale is the number of decimal places the quantity columns keep (NUMERIC(14,3)).
const QuantityScale = 3

// maxQuantity is the first magnitude NUMERIC(14,3) cannot hold.
var maxQuantity = decimal.New(1, 11)

// CheckQuantity rejects values the ledger columns would round or overflow. Extra
// trailing zeros such as 1.5000 are fine.
func CheckQuantity(quantity decimal.Decimal) error {
	if !quantity.Equal(quantity.Round(QuantityScale)) {
		return fmt.Errorf("%w: at most %d decimal places are allowed", ErrInvalidMagnitude, QuantityScale)
	}
	if quantity.Abs().GreaterThanOrEqual(maxQuantity) {
		return fmt.Errorf("%w: magnitude must be below %s", ErrInvalidMagnitude, maxQuantity.String())
	}
	return nil
}

// Delta turns the caller's quantity into the signed ledger delta.
// For adjustment the quantity is already signed and must be non-zero; for every
// other type it is a magnitude. Initial accepts zero, the rest require > 0.
func (t TransactionType) Delta(quantity decimal.Decimal) (decimal.Decimal, error) {
	policy, ok := transactionSigns[t]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownTransactionType, string(t))
	}
	if err := CheckQuantity(quantity); err != nil {
		return decimal.Zero, err
	}

	switch policy {
	case signCallerSupplied:
		if quantity.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: adjustment must be non-zero", ErrInvalidMagnitude)
		}
		return quantity, nil
	case signAdd, signSubtract:
		if quantity.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: %s quantity cannot be negative", ErrInvalidMagnitude, t)
		}
		if quantity.IsZero() && t != TransactionInitial {
			return decimal.Zero, fmt.Errorf("%w: %s quantity must be greater than zero", ErrInvalidMagnitude, t)
		}
		if policy == signSubtract {
			return quantity.Neg(), nil
		}
		return quantity, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: no sign policy for %q", ErrUnknownTransactionType, string(t))
	}
}

// InventoryTransaction is an immutable ledger row.
type InventoryTransaction struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ItemID        uuid.UUID       `json:"item_id" db:"item_id"`
	Type          TransactionType `json:"transaction_type" db:"transaction_type"`
	QuantityDelta decimal.Decimal `json:"quantity_delta" db:"quantity_delta"`
	ReferenceType *string         `json:"reference_type" db:"reference_type"`
	ReferenceID   *string         `json:"reference_id" db:"reference_id"`
	Notes         *string         `json:"notes" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

func (t InventoryTransaction) MarshalJSON() ([]byte, error) {
	type transaction InventoryTransaction
	return json.Marshal(struct {
		transaction
		QuantityDelta json.Number `json:"quantity_delta"`
	}{
		transaction:   transaction(t),
		QuantityDelta: jsonNumber(t.QuantityDelta),
	})
}

// Adjustment is a request to move an item's quantity.
type Adjustment struct {
	ItemID        uuid.UUID
	Type          TransactionType
	Quantity      decimal.Decimal
	ReferenceType *string
	ReferenceID   *string
	Notes         *string
}

// Entry builds the ledger row for the adjustment, applying the sign policy.
func (a Adjustment) Entry() (*InventoryTransaction, error) {
	delta, err := a.Type.Delta(a.Quantity)
	if err != nil {
		return nil, err
	}
	return &InventoryTransaction{
		ID:            uuid.New(),
		ItemID:        a.ItemID,
		Type:          a.Type,
		QuantityDelta: delta,
		ReferenceType: a.ReferenceType,
		ReferenceID:   a.ReferenceID,
		Notes:         a.Notes,
	}, nil
}

// AdjustmentResult is what an applied adjustment produced.
type AdjustmentResult struct {
	Item        *InventoryItem        `json:"item"`
	Transaction *InventoryTransaction `json:"transaction"`
	Warnings    []string              `json:"warnings,omitempty"`
}
