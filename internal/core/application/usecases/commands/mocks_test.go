package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/model/station"
	"dispatch/internal/core/domain/model/wallet"
	"dispatch/internal/core/domain/model/webhook"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}
func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetByTokenForUpdate(ctx context.Context, token kernel.Token) (*delivery.Delivery, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetAllOpen(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockWalletRepository struct{ mock.Mock }

func (m *MockWalletRepository) GetOrCreateForUpdate(ctx context.Context, courierID kernel.UUID) (*wallet.CourierWallet, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.CourierWallet), args.Error(1)
}
func (m *MockWalletRepository) Update(ctx context.Context, w *wallet.CourierWallet) error {
	return m.Called(ctx, w).Error(0)
}
func (m *MockWalletRepository) AddLedgerEntry(ctx context.Context, e *wallet.LedgerEntry) error {
	return m.Called(ctx, e).Error(0)
}

type MockStationWalletRepository struct{ mock.Mock }

func (m *MockStationWalletRepository) GetOrCreateForUpdate(ctx context.Context, stationID kernel.UUID) (*wallet.StationWallet, error) {
	args := m.Called(ctx, stationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wallet.StationWallet), args.Error(1)
}
func (m *MockStationWalletRepository) Update(ctx context.Context, w *wallet.StationWallet) error {
	return m.Called(ctx, w).Error(0)
}

type MockStationRepository struct{ mock.Mock }

func (m *MockStationRepository) Add(ctx context.Context, s *station.Station) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockStationRepository) Update(ctx context.Context, s *station.Station) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockStationRepository) Get(ctx context.Context, id kernel.UUID) (*station.Station, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*station.Station), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}
func (m *MockCourierRepository) GetAllActiveByPlatform(ctx context.Context, platform outbox.Platform) ([]*courier.Courier, error) {
	args := m.Called(ctx, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, msg *outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockOutboxRepository) Update(ctx context.Context, msg *outbox.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *MockOutboxRepository) ClaimPending(ctx context.Context, limit int, now time.Time) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

type MockWebhookEventRepository struct{ mock.Mock }

func (m *MockWebhookEventRepository) Add(ctx context.Context, e *webhook.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockWebhookEventRepository) Update(ctx context.Context, e *webhook.Event) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockWebhookEventRepository) Get(ctx context.Context, platform outbox.Platform, messageID string) (*webhook.Event, error) {
	args := m.Called(ctx, platform, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Event), args.Error(1)
}

// MockUoW satisfies every unit-of-work shape the handlers use; each test wires
// only the repositories its handler touches.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.Called().Get(0).(ports.DeliveryRepository)
}
func (m *MockUoW) WalletRepository() ports.WalletRepository {
	return m.Called().Get(0).(ports.WalletRepository)
}
func (m *MockUoW) StationWalletRepository() ports.StationWalletRepository {
	return m.Called().Get(0).(ports.StationWalletRepository)
}
func (m *MockUoW) StationRepository() ports.StationRepository {
	return m.Called().Get(0).(ports.StationRepository)
}
func (m *MockUoW) CourierRepository() ports.CourierRepository {
	return m.Called().Get(0).(ports.CourierRepository)
}
func (m *MockUoW) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}
func (m *MockUoW) WebhookEventRepository() ports.WebhookEventRepository {
	return m.Called().Get(0).(ports.WebhookEventRepository)
}

type captureUoWFactory struct{ uow commands.CaptureUoW }

func (f captureUoWFactory) Create() commands.CaptureUoW { return f.uow }

type deliveryUoWFactory struct{ uow commands.DeliveryUoW }

func (f deliveryUoWFactory) Create() commands.DeliveryUoW { return f.uow }

type completionUoWFactory struct{ uow commands.CompletionUoW }

func (f completionUoWFactory) Create() commands.CompletionUoW { return f.uow }

type walletUoWFactory struct{ uow commands.WalletUoW }

func (f walletUoWFactory) Create() commands.WalletUoW { return f.uow }

type outboxUoWFactory struct{ uow commands.OutboxUoW }

func (f outboxUoWFactory) Create() commands.OutboxUoW { return f.uow }

type webhookUoWFactory struct{ uow commands.WebhookUoW }

func (f webhookUoWFactory) Create() commands.WebhookUoW { return f.uow }

func newOpenDelivery(t *testing.T, stationID *kernel.UUID, fee string) *delivery.Delivery {
	t.Helper()

	pickup, err := delivery.NewAddress("12 Dock Rd", "Avi", "+972500000001")
	require.NoError(t, err)
	dropoff, err := delivery.NewAddress("7 Harbor St", "Noa", "+972500000002")
	require.NoError(t, err)

	d, err := delivery.NewDelivery(
		kernel.NewUUID(),
		kernel.NewUUID(),
		stationID,
		pickup,
		dropoff,
		decimal.RequireFromString(fee),
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return d
}

func newWalletWithBalance(t *testing.T, courierID kernel.UUID, balance, limit string) *wallet.CourierWallet {
	t.Helper()

	w, err := wallet.RestoreCourierWallet(
		courierID,
		decimal.RequireFromString(balance),
		decimal.RequireFromString(limit),
	)
	require.NoError(t, err)
	return w
}
