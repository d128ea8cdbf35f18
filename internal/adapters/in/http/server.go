// Package http provides the inbound HTTP adapter. Handlers stay thin:
// bind the request, build a command or query, and map the outcome to a
// JSON response. All business rules live in the use case layer.
package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/outbox"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createDeliveryHandler commands.CreateDeliveryCommandHandler
	captureHandler        commands.CaptureDeliveryCommandHandler
	captureByTokenHandler commands.CaptureByTokenCommandHandler
	releaseHandler        commands.ReleaseDeliveryCommandHandler
	startHandler          commands.StartDeliveryCommandHandler
	markDeliveredHandler  commands.MarkDeliveredCommandHandler
	cancelHandler         commands.CancelDeliveryCommandHandler
	requestHandler        commands.RequestDeliveryCommandHandler
	approveHandler        commands.ApproveDeliveryCommandHandler
	rejectHandler         commands.RejectDeliveryCommandHandler
	adjustWalletHandler   commands.AdjustWalletCommandHandler
	dedupeInboundHandler  commands.DedupeInboundCommandHandler
	resolveInboundHandler commands.ResolveInboundCommandHandler

	// Query handlers
	getOpenDeliveriesHandler queries.GetOpenDeliveriesQueryHandler
	getLedgerHistoryHandler  queries.GetLedgerHistoryQueryHandler
	getOutboxBacklogHandler  queries.GetOutboxBacklogQueryHandler
}

// Handlers bundles every use case handler the server exposes.
type Handlers struct {
	CreateDelivery commands.CreateDeliveryCommandHandler
	Capture        commands.CaptureDeliveryCommandHandler
	CaptureByToken commands.CaptureByTokenCommandHandler
	Release        commands.ReleaseDeliveryCommandHandler
	Start          commands.StartDeliveryCommandHandler
	MarkDelivered  commands.MarkDeliveredCommandHandler
	Cancel         commands.CancelDeliveryCommandHandler
	Request        commands.RequestDeliveryCommandHandler
	Approve        commands.ApproveDeliveryCommandHandler
	Reject         commands.RejectDeliveryCommandHandler
	AdjustWallet   commands.AdjustWalletCommandHandler
	DedupeInbound  commands.DedupeInboundCommandHandler
	ResolveInbound commands.ResolveInboundCommandHandler

	GetOpenDeliveries queries.GetOpenDeliveriesQueryHandler
	GetLedgerHistory  queries.GetLedgerHistoryQueryHandler
	GetOutboxBacklog  queries.GetOutboxBacklogQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{
		createDeliveryHandler:    h.CreateDelivery,
		captureHandler:           h.Capture,
		captureByTokenHandler:    h.CaptureByToken,
		releaseHandler:           h.Release,
		startHandler:             h.Start,
		markDeliveredHandler:     h.MarkDelivered,
		cancelHandler:            h.Cancel,
		requestHandler:           h.Request,
		approveHandler:           h.Approve,
		rejectHandler:            h.Reject,
		adjustWalletHandler:      h.AdjustWallet,
		dedupeInboundHandler:     h.DedupeInbound,
		resolveInboundHandler:    h.ResolveInbound,
		getOpenDeliveriesHandler: h.GetOpenDeliveries,
		getLedgerHistoryHandler:  h.GetLedgerHistory,
		getOutboxBacklogHandler:  h.GetOutboxBacklog,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/deliveries", s.CreateDelivery)
	api.GET("/deliveries/open", s.GetOpenDeliveries)
	api.POST("/deliveries/t/:token/capture", s.CaptureByToken)
	api.POST("/deliveries/:id/capture", s.CaptureDelivery)
	api.POST("/deliveries/:id/release", s.ReleaseDelivery)
	api.POST("/deliveries/:id/start", s.StartDelivery)
	api.POST("/deliveries/:id/delivered", s.MarkDelivered)
	api.POST("/deliveries/:id/cancel", s.CancelDelivery)
	api.POST("/deliveries/:id/request", s.RequestDelivery)
	api.POST("/deliveries/:id/approve", s.ApproveDelivery)
	api.POST("/deliveries/:id/reject", s.RejectDelivery)
	api.POST("/couriers/:id/wallet/adjustments", s.AdjustWallet)
	api.GET("/couriers/:id/ledger", s.GetLedgerHistory)
	api.GET("/outbox/backlog", s.GetOutboxBacklog)
	api.POST("/webhooks/inbound", s.InboundWebhook)
}

// Error is the JSON shape for all failure responses.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DeliveryView is the JSON shape for a delivery returned by workflow endpoints.
type DeliveryView struct {
	Token         string  `json:"token"`
	Status        string  `json:"status"`
	Fee           string  `json:"fee"`
	PickupStreet  string  `json:"pickup_street"`
	DropoffStreet string  `json:"dropoff_street"`
	CourierID     *string `json:"courier_id,omitempty"`
}

func deliveryView(d *delivery.Delivery) DeliveryView {
	var courierID *string
	if id := d.Courier(); id != nil {
		str := id.String()
		courierID = &str
	}

	return DeliveryView{
		Token:         d.Token().String(),
		Status:        d.Status().String(),
		Fee:           d.Fee().StringFixed(2),
		PickupStreet:  d.Pickup().Street(),
		DropoffStreet: d.Dropoff().Street(),
		CourierID:     courierID,
	}
}

// respondResult maps the outcome of a workflow command onto HTTP:
// infrastructure error → 500, expected business refusal → 409 with the reason,
// success → 200 with the delivery.
func respondResult(ctx echo.Context, result commands.Result, err error) error {
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}

	if !result.Succeeded {
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: result.Reason,
		})
	}

	return ctx.JSON(http.StatusOK, deliveryView(result.Delivery))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// EndpointBody carries one address in delivery creation requests.
type EndpointBody struct {
	Street  string `json:"street"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
}

// CreateDeliveryBody is the request body for POST /api/v1/deliveries.
type CreateDeliveryBody struct {
	SenderID  string       `json:"sender_id"`
	StationID *string      `json:"station_id,omitempty"`
	Pickup    EndpointBody `json:"pickup"`
	Dropoff   EndpointBody `json:"dropoff"`
	Fee       string       `json:"fee"`
}

// CreateDelivery handles POST /api/v1/deliveries - posts a new delivery.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	var body CreateDeliveryBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	senderID, err := kernel.UUIDFromString(body.SenderID)
	if err != nil {
		return badRequest(ctx, "Invalid sender id")
	}

	var stationID *kernel.UUID
	if body.StationID != nil {
		id, stationErr := kernel.UUIDFromString(*body.StationID)
		if stationErr != nil {
			return badRequest(ctx, "Invalid station id")
		}
		stationID = &id
	}

	fee, err := decimal.NewFromString(body.Fee)
	if err != nil {
		return badRequest(ctx, "Invalid fee")
	}

	deliveryID := kernel.NewUUID()

	cmd, err := commands.NewCreateDeliveryCommand(
		deliveryID,
		senderID,
		stationID,
		commands.Endpoint{Street: body.Pickup.Street, Contact: body.Pickup.Contact, Phone: body.Pickup.Phone},
		commands.Endpoint{Street: body.Dropoff.Street, Contact: body.Dropoff.Contact, Phone: body.Dropoff.Phone},
		fee,
	)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	if handleErr := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to create delivery",
		})
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": deliveryID.String()})
}

// CourierBody identifies the acting courier in workflow requests.
type CourierBody struct {
	CourierID string `json:"courier_id"`
}

func (s *Server) bindCourier(ctx echo.Context) (kernel.UUID, error) {
	var body CourierBody
	if err := ctx.Bind(&body); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(body.CourierID)
}

// CaptureDelivery handles POST /api/v1/deliveries/:id/capture.
func (s *Server) CaptureDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	courierID, err := s.bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewCaptureDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.captureHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// CaptureByToken handles POST /api/v1/deliveries/t/:token/capture.
// Station-affiliated deliveries turn the capture attempt into an approval request.
func (s *Server) CaptureByToken(ctx echo.Context) error {
	token, err := kernel.TokenFromString(ctx.Param("token"))
	if err != nil {
		return badRequest(ctx, "Invalid token")
	}

	courierID, err := s.bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewCaptureByTokenCommand(token, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.captureByTokenHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// ReleaseDelivery handles POST /api/v1/deliveries/:id/release.
func (s *Server) ReleaseDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	courierID, err := s.bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewReleaseDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.releaseHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// StartDelivery handles POST /api/v1/deliveries/:id/start.
func (s *Server) StartDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	courierID, err := s.bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewStartDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.startHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// MarkDelivered handles POST /api/v1/deliveries/:id/delivered.
func (s *Server) MarkDelivered(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	cmd, err := commands.NewMarkDeliveredCommand(deliveryID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markDeliveredHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// SenderBody identifies the acting sender in cancellation requests.
type SenderBody struct {
	SenderID string `json:"sender_id"`
}

// CancelDelivery handles POST /api/v1/deliveries/:id/cancel.
func (s *Server) CancelDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	var body SenderBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	senderID, err := kernel.UUIDFromString(body.SenderID)
	if err != nil {
		return badRequest(ctx, "Invalid sender id")
	}

	cmd, err := commands.NewCancelDeliveryCommand(deliveryID, senderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.cancelHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// RequestDelivery handles POST /api/v1/deliveries/:id/request.
func (s *Server) RequestDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	courierID, err := s.bindCourier(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewRequestDeliveryCommand(deliveryID, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.requestHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// DispatcherBody identifies the acting dispatcher in decision requests.
type DispatcherBody struct {
	DispatcherID string `json:"dispatcher_id"`
}

func (s *Server) bindDispatcher(ctx echo.Context) (kernel.UUID, error) {
	var body DispatcherBody
	if err := ctx.Bind(&body); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(body.DispatcherID)
}

// ApproveDelivery handles POST /api/v1/deliveries/:id/approve.
func (s *Server) ApproveDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	dispatcherID, err := s.bindDispatcher(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid dispatcher id")
	}

	cmd, err := commands.NewApproveDeliveryCommand(deliveryID, dispatcherID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.approveHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// RejectDelivery handles POST /api/v1/deliveries/:id/reject.
func (s *Server) RejectDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid delivery id")
	}

	dispatcherID, err := s.bindDispatcher(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid dispatcher id")
	}

	cmd, err := commands.NewRejectDeliveryCommand(deliveryID, dispatcherID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.rejectHandler.Handle(ctx.Request().Context(), cmd)
	return respondResult(ctx, result, err)
}

// AdjustWalletBody is the request body for manual balance adjustments.
type AdjustWalletBody struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// AdjustWallet handles POST /api/v1/couriers/:id/wallet/adjustments.
func (s *Server) AdjustWallet(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	var body AdjustWalletBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		return badRequest(ctx, "Invalid amount")
	}

	cmd, err := commands.NewAdjustWalletCommand(courierID, amount, body.Description)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.adjustWalletHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to adjust wallet",
		})
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOpenDeliveries handles GET /api/v1/deliveries/open.
func (s *Server) GetOpenDeliveries(ctx echo.Context) error {
	query := queries.NewGetOpenDeliveriesQuery()

	deliveries, err := s.getOpenDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve deliveries",
		})
	}

	type openDelivery struct {
		Token         string  `json:"token"`
		Fee           string  `json:"fee"`
		PickupStreet  string  `json:"pickup_street"`
		DropoffStreet string  `json:"dropoff_street"`
		StationID     *string `json:"station_id,omitempty"`
	}

	response := make([]openDelivery, len(deliveries))
	for i, d := range deliveries {
		var stationID *string
		if d.StationID != nil {
			str := d.StationID.String()
			stationID = &str
		}

		response[i] = openDelivery{
			Token:         d.Token,
			Fee:           d.Fee.StringFixed(2),
			PickupStreet:  d.PickupStreet,
			DropoffStreet: d.DropoffStreet,
			StationID:     stationID,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetLedgerHistory handles GET /api/v1/couriers/:id/ledger.
func (s *Server) GetLedgerHistory(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "id")
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	query, err := queries.NewGetLedgerHistoryQuery(courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	entries, err := s.getLedgerHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve ledger history",
		})
	}

	type ledgerEntry struct {
		EntryType    string  `json:"entry_type"`
		Amount       string  `json:"amount"`
		BalanceAfter string  `json:"balance_after"`
		Description  string  `json:"description"`
		DeliveryID   *string `json:"delivery_id,omitempty"`
		CreatedAt    string  `json:"created_at"`
	}

	response := make([]ledgerEntry, len(entries))
	for i, e := range entries {
		var deliveryID *string
		if e.DeliveryID != nil {
			str := e.DeliveryID.String()
			deliveryID = &str
		}

		response[i] = ledgerEntry{
			EntryType:    e.EntryType,
			Amount:       e.Amount.StringFixed(2),
			BalanceAfter: e.BalanceAfter.StringFixed(2),
			Description:  e.Description,
			DeliveryID:   deliveryID,
			CreatedAt:    e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOutboxBacklog handles GET /api/v1/outbox/backlog.
func (s *Server) GetOutboxBacklog(ctx echo.Context) error {
	query := queries.NewGetOutboxBacklogQuery()

	summary, err := s.getOutboxBacklogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve outbox backlog",
		})
	}

	type backlogRow struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	response := make([]backlogRow, len(summary))
	for i, row := range summary {
		response[i] = backlogRow{Status: row.Status, Count: row.Count}
	}

	return ctx.JSON(http.StatusOK, response)
}

// InboundWebhookBody is the request body for inbound platform messages. The
// only action platform messages carry today is capture-by-token.
type InboundWebhookBody struct {
	Platform  string `json:"platform"`
	MessageID string `json:"message_id"`
	Token     string `json:"token"`
	CourierID string `json:"courier_id"`
}

// InboundWebhook handles POST /api/v1/webhooks/inbound. The dedupe gate makes
// platform redeliveries of the same message harmless: completed messages are
// acknowledged without reprocessing, stale processing or failed records permit
// a retry.
func (s *Server) InboundWebhook(ctx echo.Context) error {
	var body InboundWebhookBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	platform, err := outbox.PlatformFromString(body.Platform)
	if err != nil {
		return badRequest(ctx, "Invalid platform")
	}

	gate, err := commands.NewDedupeInboundCommand(platform, body.MessageID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	proceed, err := s.dedupeInboundHandler.Handle(ctx.Request().Context(), gate)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to register inbound message",
		})
	}
	if !proceed {
		return ctx.JSON(http.StatusOK, map[string]bool{"duplicate": true})
	}

	token, err := kernel.TokenFromString(body.Token)
	if err != nil {
		return badRequest(ctx, "Invalid token")
	}

	courierID, err := kernel.UUIDFromString(body.CourierID)
	if err != nil {
		return badRequest(ctx, "Invalid courier id")
	}

	cmd, err := commands.NewCaptureByTokenCommand(token, courierID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.captureByTokenHandler.Handle(ctx.Request().Context(), cmd)

	// A business refusal is still a fully processed message; only an
	// infrastructure error leaves the record retryable.
	resolve, resolveErr := commands.NewResolveInboundCommand(platform, body.MessageID, err == nil)
	if resolveErr == nil {
		if recErr := s.resolveInboundHandler.Handle(ctx.Request().Context(), resolve); recErr != nil && err == nil {
			err = recErr
		}
	}

	return respondResult(ctx, result, err)
}
