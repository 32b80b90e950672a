package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the two physical transaction collections. A record's
// kind never changes after creation; it also determines the sign of the
// amount in balance math (entries add, exits subtract).
type Kind string

const (
	KindEntry Kind = "entry"
	KindExit  Kind = "exit"
)

// Collection names as known to the record store.
const (
	CollectionEntries = "transaction-entries"
	CollectionExits   = "transaction-exits"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindEntry || k == KindExit
}

// Collection returns the record store collection that holds records of this kind.
func (k Kind) Collection() string {
	if k == KindExit {
		return CollectionExits
	}
	return CollectionEntries
}

// Category is a member of a kind-specific closed category set. Free text is
// rejected at the boundary so invalid categories never reach storage.
type Category string

// EntryCategories is the closed set of categories accepted for entries.
var EntryCategories = []Category{"mensalidades", "arrecadacao", "doacoes", "eventos", "vendas"}

// ExitCategories is the closed set of categories accepted for exits.
var ExitCategories = []Category{"equipamentos", "manutencao", "transporte", "materiais", "eventos"}

// ValidCategory reports whether c belongs to the category set of kind k.
func ValidCategory(k Kind, c Category) bool {
	set := EntryCategories
	if k == KindExit {
		set = ExitCategories
	}
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

// Transaction is the tagged-union read model over both collections: one
// struct with a Kind discriminant rather than two types.
//
// CreatedAt is the effective date used for ordering, month bucketing and
// range filters; DueDate is advisory only. Amount is always positive, the
// sign is implied by Kind.
type Transaction struct {
	ID               string          `json:"id"`
	Kind             Kind            `json:"kind"`
	Title            string          `json:"title"`
	Amount           decimal.Decimal `json:"amount"`
	Category         Category        `json:"category"`
	Completed        bool            `json:"completed"`
	CreatedAt        time.Time       `json:"createdAt"`
	DueDate          *time.Time      `json:"dueDate,omitempty"`
	ConfirmationDate *time.Time      `json:"confirmationDate,omitempty"`
	LastUpdate       time.Time       `json:"lastUpdate"`
}

// SignedAmount returns the amount with the sign implied by the kind.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindExit {
		return t.Amount.Neg()
	}
	return t.Amount
}
