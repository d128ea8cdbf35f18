package cmd

import (
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/notify"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/walletrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/outbox"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. All dependency
// decisions live here; the rest of the system receives constructed values.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	planner    services.NotificationPlanner
	notifiers  map[outbox.Platform]ports.Notifier
	publisher  ports.LivePublisher
	logger     *slog.Logger
}

// NewCompositionRoot builds the object graph from config and shared infrastructure.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	platform, err := outbox.PlatformFromString(config.DefaultPlatform)
	if err != nil {
		return CompositionRoot{}, err
	}

	walletDefaults := walletrepo.Defaults{
		CreditLimit:    config.WalletCreditLimit,
		CommissionRate: config.WalletCommissionRate,
	}

	notifiers := map[outbox.Platform]ports.Notifier{
		outbox.PlatformTelegram: buildNotifier(config.TelegramNotifyURL, config, logger),
		outbox.PlatformWhatsApp: buildNotifier(config.WhatsAppNotifyURL, config, logger),
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB, walletDefaults),
		planner:    services.NewNotificationPlanner(platform, config.OutboxMaxRetries),
		notifiers:  notifiers,
		publisher:  notify.NewLogPublisher(logger),
		logger:     logger,
	}, nil
}

func buildNotifier(url string, config Config, logger *slog.Logger) ports.Notifier {
	if url == "" {
		return notify.NewLogNotifier(logger)
	}
	return notify.NewWebhookNotifier(url, config.NotifyTimeout)
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDeliveryCommandHandler(f, c.planner)
}

func (c *CompositionRoot) CreateCaptureDeliveryCommandHandler() commands.CaptureDeliveryCommandHandler {
	return commands.NewCaptureDeliveryCommandHandler(c.captureUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateCaptureByTokenCommandHandler() commands.CaptureByTokenCommandHandler {
	return commands.NewCaptureByTokenCommandHandler(c.captureUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateReleaseDeliveryCommandHandler() commands.ReleaseDeliveryCommandHandler {
	return commands.NewReleaseDeliveryCommandHandler(c.captureUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewStartDeliveryCommandHandler(f)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	var f commands.CompletionUoWFactory = FuncCompletionUoWFactory(func() commands.CompletionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMarkDeliveredCommandHandler(f, c.planner, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelDeliveryCommandHandler(f)
}

func (c *CompositionRoot) CreateRequestDeliveryCommandHandler() commands.RequestDeliveryCommandHandler {
	return commands.NewRequestDeliveryCommandHandler(c.captureUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateApproveDeliveryCommandHandler() commands.ApproveDeliveryCommandHandler {
	return commands.NewApproveDeliveryCommandHandler(c.captureUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateRejectDeliveryCommandHandler() commands.RejectDeliveryCommandHandler {
	return commands.NewRejectDeliveryCommandHandler(c.captureUoWFactory(), c.planner)
}

func (c *CompositionRoot) CreateAdjustWalletCommandHandler() commands.AdjustWalletCommandHandler {
	var f commands.WalletUoWFactory = FuncWalletUoWFactory(func() commands.WalletUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdjustWalletCommandHandler(f)
}

func (c *CompositionRoot) CreateProcessOutboxCommandHandler() commands.ProcessOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessOutboxCommandHandler(
		f,
		c.notifiers,
		c.config.OutboxBaseBackoff,
		c.config.OutboxMaxBackoff,
		c.logger,
	)
}

func (c *CompositionRoot) CreateDedupeInboundCommandHandler() commands.DedupeInboundCommandHandler {
	return commands.NewDedupeInboundCommandHandler(c.webhookUoWFactory())
}

func (c *CompositionRoot) CreateResolveInboundCommandHandler() commands.ResolveInboundCommandHandler {
	return commands.NewResolveInboundCommandHandler(c.webhookUoWFactory())
}

func (c *CompositionRoot) CreateGetOpenDeliveriesQueryHandler() queries.GetOpenDeliveriesQueryHandler {
	return queries.NewGetOpenDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLedgerHistoryQueryHandler() queries.GetLedgerHistoryQueryHandler {
	return queries.NewGetLedgerHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOutboxBacklogQueryHandler() queries.GetOutboxBacklogQueryHandler {
	return queries.NewGetOutboxBacklogQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the inbound HTTP adapter with every handler wired.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateDelivery: c.CreateCreateDeliveryCommandHandler(),
		Capture:        c.CreateCaptureDeliveryCommandHandler(),
		CaptureByToken: c.CreateCaptureByTokenCommandHandler(),
		Release:        c.CreateReleaseDeliveryCommandHandler(),
		Start:          c.CreateStartDeliveryCommandHandler(),
		MarkDelivered:  c.CreateMarkDeliveredCommandHandler(),
		Cancel:         c.CreateCancelDeliveryCommandHandler(),
		Request:        c.CreateRequestDeliveryCommandHandler(),
		Approve:        c.CreateApproveDeliveryCommandHandler(),
		Reject:         c.CreateRejectDeliveryCommandHandler(),
		AdjustWallet:   c.CreateAdjustWalletCommandHandler(),
		DedupeInbound:  c.CreateDedupeInboundCommandHandler(),
		ResolveInbound: c.CreateResolveInboundCommandHandler(),

		GetOpenDeliveries: c.CreateGetOpenDeliveriesQueryHandler(),
		GetLedgerHistory:  c.CreateGetLedgerHistoryQueryHandler(),
		GetOutboxBacklog:  c.CreateGetOutboxBacklogQueryHandler(),
	})
}

// CreateJobManager assembles the background job manager.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateProcessOutboxCommandHandler(),
		c.config.OutboxBatchLimit,
		c.logger,
	)
}

func (c *CompositionRoot) captureUoWFactory() commands.CaptureUoWFactory {
	return FuncCaptureUoWFactory(func() commands.CaptureUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) webhookUoWFactory() commands.WebhookUoWFactory {
	return FuncWebhookUoWFactory(func() commands.WebhookUoW {
		return c.uowFactory.Create()
	})
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncCaptureUoWFactory func() commands.CaptureUoW

func (f FuncCaptureUoWFactory) Create() commands.CaptureUoW {
	return f()
}

type FuncCompletionUoWFactory func() commands.CompletionUoW

func (f FuncCompletionUoWFactory) Create() commands.CompletionUoW {
	return f()
}

type FuncWalletUoWFactory func() commands.WalletUoW

func (f FuncWalletUoWFactory) Create() commands.WalletUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncWebhookUoWFactory func() commands.WebhookUoW

func (f FuncWebhookUoWFactory) Create() commands.WebhookUoW {
	return f()
}
