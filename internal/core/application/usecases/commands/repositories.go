// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// DeliveryRepoFactory provides access to the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// WalletRepoFactory provides access to the courier wallet repository within a transaction.
	WalletRepoFactory interface {
		WalletRepository() ports.WalletRepository
	}

	// StationWalletRepoFactory provides access to the station wallet repository within a transaction.
	StationWalletRepoFactory interface {
		StationWalletRepository() ports.StationWalletRepository
	}

	// StationRepoFactory provides access to the station repository within a transaction.
	StationRepoFactory interface {
		StationRepository() ports.StationRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// OutboxRepoFactory provides access to the outbox repository within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// WebhookRepoFactory provides access to the webhook dedupe repository within a transaction.
	WebhookRepoFactory interface {
		WebhookEventRepository() ports.WebhookEventRepository
	}

	// DeliveryUoW manages transactions for operations touching deliveries and
	// their notifications but no wallets: create and cancel.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
		OutboxRepoFactory
	}

	// DeliveryUoWFactory creates new delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// CaptureUoW manages transactions for the capture engine and the approval
	// workflow: the delivery, the courier's wallet and ledger, the mediating
	// station, and the outbox all change in one atomic unit.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   d, err := uow.DeliveryRepository().GetForUpdate(ctx, id)
	//   w, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, courierID)
	//   // ... mutate, persist, enqueue
	//
	//   err = uow.Commit(ctx)
	CaptureUoW interface {
		TxManager
		DeliveryRepoFactory
		WalletRepoFactory
		StationRepoFactory
		CourierRepoFactory
		OutboxRepoFactory
	}

	// CaptureUoWFactory creates new capture unit of work instances.
	CaptureUoWFactory interface {
		Create() CaptureUoW
	}

	// CompletionUoW manages transactions for marking deliveries delivered:
	// the status change, the station's commission credit, and the completion
	// notice to the sender commit together.
	CompletionUoW interface {
		TxManager
		DeliveryRepoFactory
		StationWalletRepoFactory
		OutboxRepoFactory
	}

	// CompletionUoWFactory creates new completion unit of work instances.
	CompletionUoWFactory interface {
		Create() CompletionUoW
	}

	// WalletUoW manages transactions for wallet-only operations.
	WalletUoW interface {
		TxManager
		WalletRepoFactory
	}

	// WalletUoWFactory creates new wallet unit of work instances.
	WalletUoWFactory interface {
		Create() WalletUoW
	}

	// OutboxUoW manages transactions for the outbox worker: claiming pending
	// messages, resolving broadcast recipients, and recording attempt outcomes.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
		CourierRepoFactory
	}

	// OutboxUoWFactory creates new outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// WebhookUoW manages transactions for inbound message dedupe records.
	WebhookUoW interface {
		TxManager
		WebhookRepoFactory
	}

	// WebhookUoWFactory creates new webhook unit of work instances.
	WebhookUoWFactory interface {
		Create() WebhookUoW
	}
)
