package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	postgres_adapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/walletrepo"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/domain/model/webhook"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work and repositories against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes a PostgreSQL container and runs the schema migration.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, walletrepo.Defaults{
		CreditLimit:    decimal.RequireFromString("-50.00"),
		CommissionRate: decimal.RequireFromString("0.10"),
	})
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE
		deliveries,
		courier_wallets,
		wallet_ledger_entries,
		station_wallets,
		stations,
		station_dispatchers,
		station_blacklisted_couriers,
		couriers,
		outbox_messages,
		webhook_events`).Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newDelivery(stationID *kernel.UUID, fee string) *delivery.Delivery {
	pickup, err := delivery.NewAddress("12 Market St", "Alex", "+100")
	suite.Require().NoError(err)
	dropoff, err := delivery.NewAddress("7 Harbor Rd", "Sam", "+200")
	suite.Require().NoError(err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		kernel.NewUUID(),
		stationID,
		pickup,
		dropoff,
		decimal.RequireFromString(fee),
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return d
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "repeated begin must be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Require().Error(uow.Commit(ctx), "commit without active transaction must fail")
	suite.Require().Error(uow.Rollback(ctx), "rollback without active transaction must fail")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestDeliveryRoundTrip() {
	ctx := context.Background()
	stationID := kernel.NewUUID()
	d := suite.newDelivery(&stationID, "25.50")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, d))
	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().DeliveryRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(d.ID()))
	suite.True(loaded.Token().IsEqual(d.Token()))
	suite.Equal(delivery.StatusOpen, loaded.Status())
	suite.True(loaded.Fee().Equal(decimal.RequireFromString("25.50")))
	suite.Require().NotNil(loaded.StationID())
	suite.True(loaded.StationID().IsEqual(stationID))

	byToken, err := suite.factory.Create().DeliveryRepository().GetByTokenForUpdate(ctx, d.Token())
	suite.Require().NoError(err)
	suite.True(byToken.ID().IsEqual(d.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	d := suite.newDelivery(nil, "10.00")

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, d))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().DeliveryRepository().Get(ctx, d.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWalletCreatedOnFirstUse() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	w, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, courierID)
	suite.Require().NoError(err)
	suite.True(w.Balance().IsZero())
	suite.True(w.CreditLimit().Equal(decimal.RequireFromString("-50.00")))
	suite.Require().NoError(uow.Commit(ctx))

	// Second call finds the persisted row.
	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	again, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, courierID)
	suite.Require().NoError(err)
	suite.True(again.CourierID().IsEqual(courierID))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestLedgerDedupeIndexRejectsDoubleDebit() {
	ctx := context.Background()
	courierID := kernel.NewUUID()
	deliveryID := kernel.NewUUID()
	now := time.Now().UTC()

	writeDebit := func() error {
		uow := suite.factory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() { _ = uow.Rollback(ctx) }()

		w, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, courierID)
		if err != nil {
			return err
		}

		entry, err := wallet.NewLedgerEntry(
			kernel.NewUUID(),
			courierID,
			&deliveryID,
			wallet.EntryTypeFeeDebit,
			decimal.RequireFromString("-15.00"),
			w.Balance().Sub(decimal.RequireFromString("15.00")),
			"fee debit",
			now,
		)
		if err != nil {
			return err
		}

		if err := uow.WalletRepository().AddLedgerEntry(ctx, entry); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	suite.Require().NoError(writeDebit())
	suite.Require().Error(writeDebit(), "second fee debit for the same delivery must violate the dedupe index")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestManualEntriesWithoutDeliveryAreNotDeduped() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	writeManualCredit := func(createdAt time.Time) error {
		uow := suite.factory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() { _ = uow.Rollback(ctx) }()

		if _, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, courierID); err != nil {
			return err
		}

		entry, err := wallet.NewLedgerEntry(
			kernel.NewUUID(),
			courierID,
			nil,
			wallet.EntryTypeManualCredit,
			decimal.RequireFromString("5.00"),
			decimal.RequireFromString("5.00"),
			"top-up",
			createdAt,
		)
		if err != nil {
			return err
		}

		if err := uow.WalletRepository().AddLedgerEntry(ctx, entry); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	now := time.Now().UTC()
	suite.Require().NoError(writeManualCredit(now))
	suite.Require().NoError(writeManualCredit(now.Add(time.Second)),
		"NULL delivery references must not collide in the dedupe index")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOutboxClaimSkipsFutureRetries() {
	ctx := context.Background()
	now := time.Now().UTC()

	due, err := outbox.NewMessage(
		kernel.NewUUID(), outbox.PlatformTelegram, "chat-1", "delivery_created",
		json.RawMessage(`{"token":"abc"}`), outbox.DefaultMaxRetries, now.Add(-time.Minute),
	)
	suite.Require().NoError(err)

	backedOff, err := outbox.NewMessage(
		kernel.NewUUID(), outbox.PlatformTelegram, "chat-2", "delivery_created",
		json.RawMessage(`{"token":"def"}`), outbox.DefaultMaxRetries, now.Add(-time.Minute),
	)
	suite.Require().NoError(err)
	backedOff.RecordFailure("timeout", 30*time.Second, time.Hour, now)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OutboxRepository().Add(ctx, due))
	suite.Require().NoError(uow.OutboxRepository().Add(ctx, backedOff))
	suite.Require().NoError(uow.Commit(ctx))

	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	claimed, err := uow.OutboxRepository().ClaimPending(ctx, 10, now)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().Len(claimed, 1)
	suite.True(claimed[0].ID().IsEqual(due.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWebhookEventPrimaryKeyBlocksDuplicates() {
	ctx := context.Background()
	now := time.Now().UTC()

	event, err := webhook.NewEvent("msg-77", outbox.PlatformTelegram, now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.WebhookEventRepository().Add(ctx, event))
	suite.Require().NoError(uow.Commit(ctx))

	duplicate, err := webhook.NewEvent("msg-77", outbox.PlatformTelegram, now)
	suite.Require().NoError(err)

	uow = suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().Error(uow.WebhookEventRepository().Add(ctx, duplicate))
	suite.Require().NoError(uow.Rollback(ctx))

	loaded, err := suite.factory.Create().WebhookEventRepository().Get(ctx, outbox.PlatformTelegram, "msg-77")
	suite.Require().NoError(err)
	suite.Equal(webhook.StatusProcessing, loaded.Status())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
