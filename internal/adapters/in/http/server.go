package http

import (
	"errors"
	"net/http"

	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/application/usecases/queries"
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	createItemHandler       commands.CreateItemCommandHandler
	addItemToOrderHandler   commands.AddItemToOrderCommandHandler
	triggerOrderHandler     commands.TriggerOrderEventCommandHandler
	triggerItemHandler      commands.TriggerItemEventCommandHandler
	markItemObsoleteHandler commands.MarkItemObsoleteCommandHandler

	// Query handlers
	getOrderHandler       queries.GetOrderQueryHandler
	getOpenOrdersHandler  queries.GetOpenOrdersQueryHandler
	getItemHistoryHandler queries.GetItemHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	createItemHandler commands.CreateItemCommandHandler,
	addItemToOrderHandler commands.AddItemToOrderCommandHandler,
	triggerOrderHandler commands.TriggerOrderEventCommandHandler,
	triggerItemHandler commands.TriggerItemEventCommandHandler,
	markItemObsoleteHandler commands.MarkItemObsoleteCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getOpenOrdersHandler queries.GetOpenOrdersQueryHandler,
	getItemHistoryHandler queries.GetItemHistoryQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		createItemHandler:       createItemHandler,
		addItemToOrderHandler:   addItemToOrderHandler,
		triggerOrderHandler:     triggerOrderHandler,
		triggerItemHandler:      triggerItemHandler,
		markItemObsoleteHandler: markItemObsoleteHandler,
		getOrderHandler:         getOrderHandler,
		getOpenOrdersHandler:    getOpenOrdersHandler,
		getItemHistoryHandler:   getItemHistoryHandler,
	}
}

// RegisterRoutes wires the API surface onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOpenOrders)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/items", s.AddItemToOrder)
	api.POST("/orders/:orderId/events", s.TriggerOrderEvent)

	api.POST("/items", s.CreateItem)
	api.POST("/items/:itemId/events", s.TriggerItemEvent)
	api.POST("/items/:itemId/obsolete", s.MarkItemObsolete)
	api.GET("/items/:itemId/history", s.GetItemHistory)

	e.GET("/health", s.Health)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	variant, err := order.VariantFromString(body.Variant)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	var locationID *kernel.UUID
	if body.LocationID != nil {
		parsed, parseErr := kernel.UUIDFromString(*body.LocationID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid location ID")
		}
		locationID = &parsed
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, variant, body.AccessDateStart, locationID, body.Assignees)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// CreateItem handles POST /api/v1/items.
func (s *Server) CreateItem(ctx echo.Context) error {
	var body NewItem
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	permanentLocationID, err := kernel.UUIDFromString(body.PermanentLocationID)
	if err != nil {
		return badRequest(ctx, "Invalid permanent location ID")
	}

	itemID := kernel.NewUUID()
	cmd, err := commands.NewCreateItemCommand(itemID, body.Digital, permanentLocationID)
	if err != nil {
		return badRequest(ctx, "Invalid item data: "+err.Error())
	}

	if handleErr := s.createItemHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: itemID.String()})
}

// AddItemToOrder handles POST /api/v1/orders/:orderId/items.
func (s *Server) AddItemToOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var body NewOrderItem
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	itemID, err := kernel.UUIDFromString(body.ItemID)
	if err != nil {
		return badRequest(ctx, "Invalid item ID")
	}

	cmd, err := commands.NewAddItemToOrderCommand(orderID, itemID)
	if err != nil {
		return badRequest(ctx, "Invalid membership data: "+err.Error())
	}

	if handleErr := s.addItemToOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusCreated)
}

// TriggerOrderEvent handles POST /api/v1/orders/:orderId/events.
func (s *Server) TriggerOrderEvent(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var body NewOrderEvent
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(body.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid user ID")
	}

	cmd, err := commands.NewTriggerOrderEventCommand(
		orderID, statemachine.Event(body.Event), userID, body.RequestContext, body.Strict,
	)
	if err != nil {
		return badRequest(ctx, "Invalid event data: "+err.Error())
	}

	if handleErr := s.triggerOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TriggerItemEvent handles POST /api/v1/items/:itemId/events.
func (s *Server) TriggerItemEvent(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return badRequest(ctx, "Invalid item ID")
	}

	var body NewItemEvent
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	userID, err := kernel.UUIDFromString(body.UserID)
	if err != nil {
		return badRequest(ctx, "Invalid user ID")
	}

	var orderID *kernel.UUID
	if body.OrderID != nil {
		parsed, parseErr := kernel.UUIDFromString(*body.OrderID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid order ID")
		}
		orderID = &parsed
	}

	var locationID *kernel.UUID
	if body.LocationID != nil {
		parsed, parseErr := kernel.UUIDFromString(*body.LocationID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid location ID")
		}
		locationID = &parsed
	}

	cmd, err := commands.NewTriggerItemEventCommand(
		itemID, statemachine.Event(body.Event), userID, orderID, locationID, body.Strict,
	)
	if err != nil {
		return badRequest(ctx, "Invalid event data: "+err.Error())
	}

	if handleErr := s.triggerItemHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkItemObsolete handles POST /api/v1/items/:itemId/obsolete.
func (s *Server) MarkItemObsolete(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return badRequest(ctx, "Invalid item ID")
	}

	cmd, err := commands.NewMarkItemObsoleteCommand(itemID)
	if err != nil {
		return badRequest(ctx, "Invalid item data: "+err.Error())
	}

	if handleErr := s.markItemObsoleteHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return respondError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	detail, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderDetailFromResponse(detail))
}

// GetOpenOrders handles GET /api/v1/orders.
func (s *Server) GetOpenOrders(ctx echo.Context) error {
	responses, err := s.getOpenOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetOpenOrdersQuery())
	if err != nil {
		return respondError(ctx, err)
	}

	summaries := make([]OrderSummary, 0, len(responses))
	for _, r := range responses {
		summaries = append(summaries, OrderSummary{
			ID:              r.ID.String(),
			Variant:         r.Variant,
			State:           string(r.State),
			Confirmed:       r.Confirmed,
			AccessDateStart: r.AccessDateStart,
			ActiveItemCount: r.ActiveItemCount,
		})
	}

	return ctx.JSON(http.StatusOK, summaries)
}

// GetItemHistory handles GET /api/v1/items/:itemId/history.
func (s *Server) GetItemHistory(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return badRequest(ctx, "Invalid item ID")
	}

	query, err := queries.NewGetItemHistoryQuery(itemID)
	if err != nil {
		return badRequest(ctx, "Invalid item ID")
	}

	history, err := s.getItemHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, itemHistoryFromResponse(history))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// respondError maps domain failures onto API status codes: a denied
// transition or membership conflict is the caller's race to resolve, a
// missing subject is a 404, everything else stays a 500.
func respondError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, statemachine.ErrTransitionNotPermitted),
		errors.Is(err, order.ErrItemAlreadyMember),
		errors.Is(err, item.ErrItemNotEligibleForObsolete):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	}

	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	}

	var required *errs.ValueIsRequiredError
	var invalid *errs.ValueIsInvalidError
	if errors.As(err, &required) || errors.As(err, &invalid) {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	return ctx.JSON(http.StatusInternalServerError, Error{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
	})
}
