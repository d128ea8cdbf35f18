package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// DeliveryRepository returns a DeliveryRepository bound to the current transaction.
	// Row locks taken through it are held until Commit or Rollback.
	DeliveryRepository() DeliveryRepository

	// WalletRepository returns a WalletRepository bound to the current transaction.
	WalletRepository() WalletRepository

	// StationWalletRepository returns a StationWalletRepository bound to the current transaction.
	StationWalletRepository() StationWalletRepository

	// StationRepository returns a StationRepository bound to the current transaction.
	StationRepository() StationRepository

	// CourierRepository returns a CourierRepository bound to the current transaction.
	CourierRepository() CourierRepository

	// OutboxRepository returns an OutboxRepository bound to the current transaction.
	OutboxRepository() OutboxRepository

	// WebhookEventRepository returns a WebhookEventRepository bound to the current transaction.
	WebhookEventRepository() WebhookEventRepository
}
