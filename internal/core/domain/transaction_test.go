package domain_test

import (
	"testing"

	"github.com/ascaixa/treasury-backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestKind_Collection(t *testing.T) {
	assert.Equal(t, "transaction-entries", domain.KindEntry.Collection())
	assert.Equal(t, "transaction-exits", domain.KindExit.Collection())
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, domain.KindEntry.Valid())
	assert.True(t, domain.KindExit.Valid())
	assert.False(t, domain.Kind("transfer").Valid())
	assert.False(t, domain.Kind("").Valid())
}

func TestValidCategory(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.Kind
		category domain.Category
		want     bool
	}{
		{"entry category accepted for entries", domain.KindEntry, "mensalidades", true},
		{"exit category accepted for exits", domain.KindExit, "equipamentos", true},
		{"shared category valid for both kinds", domain.KindEntry, "eventos", true},
		{"shared category valid for exits too", domain.KindExit, "eventos", true},
		{"exit category rejected for entries", domain.KindEntry, "transporte", false},
		{"entry category rejected for exits", domain.KindExit, "doacoes", false},
		{"free text rejected", domain.KindEntry, "outros", false},
		{"empty rejected", domain.KindExit, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ValidCategory(tt.kind, tt.category))
		})
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	entry := domain.Transaction{Kind: domain.KindEntry, Amount: decimal.NewFromInt(100)}
	exit := domain.Transaction{Kind: domain.KindExit, Amount: decimal.NewFromInt(40)}

	assert.True(t, entry.SignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, exit.SignedAmount().Equal(decimal.NewFromInt(-40)))
}
