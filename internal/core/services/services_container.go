package services

import (
	"github.com/SscSPs/medisave/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/platform/config"
)

// Collaborators are the optional outbound clients. Nil fields disable the
// matching feature.
type Collaborators struct {
	Model gateways.CompletionGateway
	Bank  gateways.BankGateway
	// Listeners receive delta notifications in addition to the balance tracker.
	Listeners []portssvc.DeltaListener
}

// NewServiceContainer wires the services over an already loaded store.
func NewServiceContainer(cfg *config.Config, store *ExpenseStore, ext Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Balance = NewBalanceService(ext.Bank)

	listeners := append([]portssvc.DeltaListener{container.Balance}, ext.Listeners...)
	container.Expense = NewExpenseService(store, WithDeltaListeners(listeners...))

	container.Assistant = NewAssistantService(ext.Model,
		WithReceiptLimits(cfg.ReceiptMaxBytes, cfg.ReceiptMaxDimension),
	)

	return container
}

// NewStore creates the expense store over the configured slot repository.
func NewStore(cfg *config.Config, repos portsrepo.RepositoryProvider) *ExpenseStore {
	return NewExpenseStore(repos.SlotRepo, cfg.LedgerSlotKey)
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ExpenseSvcFacade = (*expenseService)(nil)
	_ portssvc.AssistantSvc     = (*assistantService)(nil)
	_ portssvc.BalanceSvc       = (*balanceService)(nil)
)
