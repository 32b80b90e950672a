package services

import (
	portsrepo "github.com/ascaixa/treasury-backend/internal/core/ports/repositories"
	portssvc "github.com/ascaixa/treasury-backend/internal/core/ports/services"
)

// NewServiceContainer wires all application services over one record store.
func NewServiceContainer(store portsrepo.RecordStore) *portssvc.ServiceContainer {
	ledger := NewLedgerService(store)
	return &portssvc.ServiceContainer{
		Ledger:      ledger,
		Summary:     NewSummaryService(store, ledger),
		Transaction: NewTransactionService(store),
		Data:        NewDataService(store, ledger),
	}
}
