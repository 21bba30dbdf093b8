package repo_interfaces

import "context"

// Atomic exposes repositories bound to one atomic unit. Every write performed
// through them commits together with the unit or not at all.
type Atomic interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
}

// Store is the atomic-unit primitive of the persistence layer. The embedded
// repositories serve reads outside any unit. RunAtomic executes fn against
// unit-bound repositories and commits the unit when fn returns nil; any error
// from fn aborts the whole unit and is returned unchanged.
type Store interface {
	Atomic
	RunAtomic(ctx context.Context, fn func(repos Atomic) error) error
}
