// Package http exposes the order lifecycle over a JSON REST API.
// It coordinates between HTTP handlers and application use cases, translating
// domain errors into status codes: unknown orders map to 404, validation
// failures to 400 and exhausted optimistic-commit retries to 409.
package http

import (
	"errors"
	"net/http"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// actorHeader carries the already-authenticated principal performing an admin
// mutation. Authentication itself happens upstream of this service.
const actorHeader = "X-Actor-Id"

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server implements the HTTP handlers for the order lifecycle API.
type Server struct {
	// Command handlers
	createOrderHandler        commands.CreateOrderCommandHandler
	changeOrderStatusHandler  commands.ChangeOrderStatusCommandHandler
	amendTrackingHandler      commands.AmendTrackingCommandHandler
	addDeliveryAttemptHandler commands.AddDeliveryAttemptCommandHandler

	// Query handlers
	getOrderHandler         queries.GetOrderQueryHandler
	getOrderTimelineHandler queries.GetOrderTimelineQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	amendTrackingHandler commands.AmendTrackingCommandHandler,
	addDeliveryAttemptHandler commands.AddDeliveryAttemptCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOrderTimelineHandler queries.GetOrderTimelineQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		changeOrderStatusHandler:  changeOrderStatusHandler,
		amendTrackingHandler:      amendTrackingHandler,
		addDeliveryAttemptHandler: addDeliveryAttemptHandler,
		getOrderHandler:           getOrderHandler,
		getOrderTimelineHandler:   getOrderTimelineHandler,
	}
}

// RegisterRoutes wires the API routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/status", s.ChangeOrderStatus)
	api.PATCH("/orders/:id/tracking", s.AmendTracking)
	api.POST("/orders/:id/delivery-attempts", s.AddDeliveryAttempt)
	api.GET("/track/:orderNumber", s.TrackOrder)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// NewOrderItem is one line-item snapshot in an order placement request.
type NewOrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
}

// NewOrder is the request body for placing an order. All monetary amounts are
// integer cents.
type NewOrder struct {
	CustomerEmail   string         `json:"customerEmail"`
	ShippingAddress string         `json:"shippingAddress"`
	Items           []NewOrderItem `json:"items"`
	Subtotal        int64          `json:"subtotal"`
	Tax             int64          `json:"tax"`
	ShippingCost    int64          `json:"shippingCost"`
	Total           int64          `json:"total"`
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var newOrder NewOrder
	if err := ctx.Bind(&newOrder); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	items := make([]order.Item, 0, len(newOrder.Items))
	for _, it := range newOrder.Items {
		price, err := kernel.NewMoney(it.Price)
		if err != nil {
			return writeError(ctx, err)
		}
		item, err := order.NewItem(it.ProductID, it.Name, price, it.Quantity, it.Image)
		if err != nil {
			return writeError(ctx, err)
		}
		items = append(items, item)
	}

	subtotal, err := kernel.NewMoney(newOrder.Subtotal)
	if err != nil {
		return writeError(ctx, err)
	}
	tax, err := kernel.NewMoney(newOrder.Tax)
	if err != nil {
		return writeError(ctx, err)
	}
	shippingCost, err := kernel.NewMoney(newOrder.ShippingCost)
	if err != nil {
		return writeError(ctx, err)
	}
	total, err := kernel.NewMoney(newOrder.Total)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		newOrder.CustomerEmail,
		newOrder.ShippingAddress,
		items,
		subtotal, tax, shippingCost, total,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, queries.NewGetOrderQueryResponse(aggregate))
}

// GetOrder handles GET /api/v1/orders/:id - the admin order detail view.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// StatusChange is the request body for a status transition. The optional
// tracking fields are merged into the tracking record in the same commit as
// the status change.
type StatusChange struct {
	Status          string  `json:"status"`
	Notes           string  `json:"notes,omitempty"`
	Location        string  `json:"location,omitempty"`
	TrackingNumber  *string `json:"trackingNumber,omitempty"`
	Carrier         *string `json:"carrier,omitempty"`
	TrackingURL     *string `json:"trackingUrl,omitempty"`
	CurrentLocation *string `json:"currentLocation,omitempty"`
}

// ChangeOrderStatus handles POST /api/v1/orders/:id/status - moves an order to
// a new status. Out-of-graph transitions are accepted as admin overrides.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var change StatusChange
	if err = ctx.Bind(&change); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	newStatus, err := order.ParseStatus(change.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	opts := []commands.TransitionOption{
		commands.WithTransitionNotes(change.Notes),
		commands.WithTransitionActor(ctx.Request().Header.Get(actorHeader)),
		commands.WithTransitionLocation(change.Location),
	}
	patch := &order.TrackingPatch{
		TrackingNumber:  change.TrackingNumber,
		Carrier:         change.Carrier,
		TrackingURL:     change.TrackingURL,
		CurrentLocation: change.CurrentLocation,
	}
	if change.TrackingNumber != nil || change.Carrier != nil ||
		change.TrackingURL != nil || change.CurrentLocation != nil {
		opts = append(opts, commands.WithTransitionTrackingPatch(patch))
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, newStatus, opts...)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, queries.NewGetOrderQueryResponse(aggregate))
}

// TrackingAmendment is the request body for a tracking amendment. Absent
// fields are left untouched; date fields accept RFC 3339 timestamps or plain
// calendar dates.
type TrackingAmendment struct {
	TrackingNumber    *string `json:"trackingNumber,omitempty"`
	Carrier           *string `json:"carrier,omitempty"`
	TrackingURL       *string `json:"trackingUrl,omitempty"`
	CurrentLocation   *string `json:"currentLocation,omitempty"`
	ExpectedDelivery  *string `json:"expectedDelivery,omitempty"`
	EstimatedDelivery *string `json:"estimatedDelivery,omitempty"`
	AdminNotes        *string `json:"adminNotes,omitempty"`
	CustomerNotes     *string `json:"customerNotes,omitempty"`
	PaymentStatus     *string `json:"paymentStatus,omitempty"`
}

// AmendTracking handles PATCH /api/v1/orders/:id/tracking - applies a partial
// update to tracking metadata and side fields. An amendment that changes
// nothing is acknowledged without a write.
func (s *Server) AmendTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var body TrackingAmendment
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amendment := order.TrackingAmendment{
		TrackingPatch: order.TrackingPatch{
			TrackingNumber:  body.TrackingNumber,
			Carrier:         body.Carrier,
			TrackingURL:     body.TrackingURL,
			CurrentLocation: body.CurrentLocation,
		},
		AdminNotes:    body.AdminNotes,
		CustomerNotes: body.CustomerNotes,
	}

	if body.ExpectedDelivery != nil {
		expected, parseErr := commands.ParseDeliveryDate("expectedDelivery", *body.ExpectedDelivery)
		if parseErr != nil {
			return writeError(ctx, parseErr)
		}
		amendment.ExpectedDelivery = &expected
	}
	if body.EstimatedDelivery != nil {
		estimated, parseErr := commands.ParseDeliveryDate("estimatedDelivery", *body.EstimatedDelivery)
		if parseErr != nil {
			return writeError(ctx, parseErr)
		}
		amendment.EstimatedDelivery = &estimated
	}
	if body.PaymentStatus != nil {
		paymentStatus, parseErr := order.ParsePaymentStatus(*body.PaymentStatus)
		if parseErr != nil {
			return writeError(ctx, parseErr)
		}
		amendment.PaymentStatus = &paymentStatus
	}

	cmd, err := commands.NewAmendTrackingCommand(orderID, amendment)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.amendTrackingHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, queries.NewGetOrderQueryResponse(aggregate))
}

// NewDeliveryAttempt is the request body for recording a delivery attempt.
type NewDeliveryAttempt struct {
	Status   string `json:"status"`
	Notes    string `json:"notes,omitempty"`
	Location string `json:"location,omitempty"`
}

// AddDeliveryAttempt handles POST /api/v1/orders/:id/delivery-attempts -
// records one physical delivery try. The order status is never changed here.
func (s *Server) AddDeliveryAttempt(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var attempt NewDeliveryAttempt
	if err = ctx.Bind(&attempt); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	attemptStatus, err := order.ParseAttemptStatus(attempt.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAddDeliveryAttemptCommand(orderID, attemptStatus, attempt.Notes, attempt.Location)
	if err != nil {
		return writeError(ctx, err)
	}

	aggregate, err := s.addDeliveryAttemptHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, queries.NewGetOrderQueryResponse(aggregate))
}

// TrackOrder handles GET /api/v1/track/:orderNumber - the public tracking
// timeline looked up by order number.
func (s *Server) TrackOrder(ctx echo.Context) error {
	query, err := queries.NewGetOrderTimelineQuery(ctx.Param("orderNumber"))
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.getOrderTimelineHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return respondError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrCommitConflict):
		return respondError(ctx, http.StatusConflict,
			"Order was modified concurrently, please retry")
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return respondError(ctx, http.StatusBadRequest, err.Error())
	default:
		return respondError(ctx, http.StatusInternalServerError, "Internal server error")
	}
}

func badRequest(ctx echo.Context, message string) error {
	return respondError(ctx, http.StatusBadRequest, message)
}

func respondError(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
