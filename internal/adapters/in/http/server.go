// Package http is the inbound HTTP adapter: an echo API translating
// requests into commands and queries. Handlers never touch aggregates
// directly; everything goes through the application layer.
package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call ctx.Validate on bound payloads.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the shared request validator.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// Handlers bundles the application handlers the API dispatches to.
type Handlers struct {
	CreateOrder       commands.CreateOrderCommandHandler
	CancelOrder       commands.CancelOrderCommandHandler
	ClaimTask         commands.ClaimAssemblyTaskCommandHandler
	CompleteTask      commands.CompleteAssemblyTaskCommandHandler
	ReportDefect      commands.ReportAssemblyDefectCommandHandler
	ResolveDefect     commands.ResolveAssemblyDefectCommandHandler
	PlanRoutes        commands.PlanRoutesCommandHandler
	CreateAdHoc       commands.CreateAdHocDeliveryCommandHandler
	AssignRoute       commands.AssignRouteCommandHandler
	StartRoute        commands.StartRouteCommandHandler
	CompleteRoute     commands.CompleteRouteCommandHandler
	CancelRoute       commands.CancelRouteCommandHandler
	MarkInTransit     commands.MarkDeliveryInTransitCommandHandler
	MarkArrived       commands.MarkDeliveryArrivedCommandHandler
	CompleteDelivery  commands.CompleteDeliveryCommandHandler
	FailDelivery      commands.FailDeliveryAttemptCommandHandler
	ReturnDelivery    commands.ReturnDeliveryCommandHandler
	ActiveOrders      queries.GetActiveOrdersQueryHandler
	PendingDeliveries queries.GetPendingDeliveriesQueryHandler
	RoutePlanSummary  queries.GetRoutePlanSummaryQueryHandler
}

// Server implements the fulfillment HTTP API.
type Server struct {
	handlers Handlers
}

// NewServer creates the HTTP server around the given handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes mounts all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	e.GET("/health", s.Health)

	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/active", s.GetActiveOrders)

	api.POST("/assembly-tasks/:id/claim", s.ClaimAssemblyTask)
	api.POST("/assembly-tasks/:id/complete", s.CompleteAssemblyTask)
	api.POST("/assembly-tasks/:id/defect", s.ReportAssemblyDefect)
	api.POST("/assembly-tasks/:id/resolve-defect", s.ResolveAssemblyDefect)

	api.POST("/routes/plan", s.PlanRoutes)
	api.GET("/routes", s.GetRoutePlanSummary)
	api.POST("/routes/:id/assign", s.AssignRoute)
	api.POST("/routes/:id/start", s.StartRoute)
	api.POST("/routes/:id/complete", s.CompleteRoute)
	api.POST("/routes/:id/cancel", s.CancelRoute)

	api.POST("/deliveries/adhoc", s.CreateAdHocDelivery)
	api.GET("/deliveries/unassigned", s.GetPendingDeliveries)
	api.POST("/deliveries/:id/transit", s.MarkDeliveryInTransit)
	api.POST("/deliveries/:id/arrived", s.MarkDeliveryArrived)
	api.POST("/deliveries/:id/complete", s.CompleteDelivery)
	api.POST("/deliveries/:id/fail", s.FailDelivery)
	api.POST("/deliveries/:id/return", s.ReturnDelivery)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, err)
	}

	lines := make([]commands.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, commands.OrderLine{
			SKU:             line.SKU,
			Quantity:        line.Quantity,
			WeightGrams:     line.WeightGrams,
			VolumeCubicCm:   line.VolumeCubicCm,
			SpecialHandling: line.SpecialHandling,
		})
	}

	var windowFrom, windowTo time.Time
	if req.WindowFrom != nil {
		windowFrom = *req.WindowFrom
	}
	if req.WindowTo != nil {
		windowTo = *req.WindowTo
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, parsePriority(req.Priority), windowFrom, windowTo, lines,
	)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"order_id": orderID.String()})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetActiveOrdersQuery()

	orders, err := s.handlers.ActiveOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]ActiveOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrderResponse{
			ID:                o.ID.String(),
			CustomerID:        o.CustomerID.String(),
			Status:            o.Status,
			Priority:          o.Priority,
			City:              o.City,
			OnHold:            o.OnHold,
			HoldReason:        o.HoldReason,
			BackorderAttempts: o.BackorderAttempts,
			ItemCount:         o.ItemCount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ClaimAssemblyTask handles POST /api/v1/assembly-tasks/:id/claim.
func (s *Server) ClaimAssemblyTask(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req ClaimTaskRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return err
	}

	workerID, err := kernel.UUIDFromString(req.WorkerID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewClaimAssemblyTaskCommand(id, workerID)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.ClaimTask.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteAssemblyTask handles POST /api/v1/assembly-tasks/:id/complete.
func (s *Server) CompleteAssemblyTask(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCompleteAssemblyTaskCommand(id)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CompleteTask.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportAssemblyDefect handles POST /api/v1/assembly-tasks/:id/defect.
func (s *Server) ReportAssemblyDefect(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewReportAssemblyDefectCommand(id)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.ReportDefect.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ResolveAssemblyDefect handles POST /api/v1/assembly-tasks/:id/resolve-defect.
func (s *Server) ResolveAssemblyDefect(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req ResolveDefectRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return err
	}

	resolution := commands.ResolutionReplace
	if req.Resolution == "remove" {
		resolution = commands.ResolutionRemove
	}

	cmd, err := commands.NewResolveAssemblyDefectCommand(id, resolution)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.ResolveDefect.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PlanRoutes handles POST /api/v1/routes/plan.
func (s *Server) PlanRoutes(ctx echo.Context) error {
	var req PlanRoutesRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewPlanRoutesCommand(req.Date, req.Team)
	if err != nil {
		return badRequest(ctx, err)
	}

	result, err := s.handlers.PlanRoutes.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := PlanRoutesResponse{
		RouteIDs:   make([]string, len(result.RouteIDs)),
		Unassigned: make([]UnassignedDeliveryResponse, len(result.Unassigned)),
	}
	for i, routeID := range result.RouteIDs {
		response.RouteIDs[i] = routeID.String()
	}
	for i, unassigned := range result.Unassigned {
		response.Unassigned[i] = UnassignedDeliveryResponse{
			DeliveryID: unassigned.DeliveryID.String(),
			OrderID:    unassigned.OrderID.String(),
			Reason:     unassigned.Reason,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetRoutePlanSummary handles GET /api/v1/routes?date=...&team=...
func (s *Server) GetRoutePlanSummary(ctx echo.Context) error {
	date, err := time.Parse(time.RFC3339, ctx.QueryParam("date"))
	if err != nil {
		return badRequest(ctx, errs.NewValueIsInvalidError("date"))
	}

	query, err := queries.NewGetRoutePlanSummaryQuery(date, ctx.QueryParam("team"))
	if err != nil {
		return badRequest(ctx, err)
	}

	routes, err := s.handlers.RoutePlanSummary.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]RouteSummaryResponse, len(routes))
	for i, r := range routes {
		response[i] = RouteSummaryResponse{
			ID:                r.ID.String(),
			DriverID:          r.DriverID.String(),
			Status:            r.Status,
			AdHoc:             r.AdHoc,
			StopCount:         r.StopCount,
			DistanceMeters:    r.DistanceMeters,
			DurationMinutes:   r.DurationMinutes,
			CostCents:         r.CostCents,
			OptimizationScore: r.OptimizationScore,
			Overtime:          r.Overtime,
			Weekend:           r.Weekend,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AssignRoute handles POST /api/v1/routes/:id/assign.
func (s *Server) AssignRoute(ctx echo.Context) error {
	return s.routeTransition(ctx, func(id kernel.UUID) error {
		cmd, err := commands.NewAssignRouteCommand(id)
		if err != nil {
			return err
		}
		return s.handlers.AssignRoute.Handle(ctx.Request().Context(), cmd)
	})
}

// StartRoute handles POST /api/v1/routes/:id/start.
func (s *Server) StartRoute(ctx echo.Context) error {
	return s.routeTransition(ctx, func(id kernel.UUID) error {
		cmd, err := commands.NewStartRouteCommand(id)
		if err != nil {
			return err
		}
		return s.handlers.StartRoute.Handle(ctx.Request().Context(), cmd)
	})
}

// CompleteRoute handles POST /api/v1/routes/:id/complete.
func (s *Server) CompleteRoute(ctx echo.Context) error {
	return s.routeTransition(ctx, func(id kernel.UUID) error {
		cmd, err := commands.NewCompleteRouteCommand(id)
		if err != nil {
			return err
		}
		return s.handlers.CompleteRoute.Handle(ctx.Request().Context(), cmd)
	})
}

// CancelRoute handles POST /api/v1/routes/:id/cancel.
func (s *Server) CancelRoute(ctx echo.Context) error {
	return s.routeTransition(ctx, func(id kernel.UUID) error {
		cmd, err := commands.NewCancelRouteCommand(id)
		if err != nil {
			return err
		}
		return s.handlers.CancelRoute.Handle(ctx.Request().Context(), cmd)
	})
}

func (s *Server) routeTransition(ctx echo.Context, run func(id kernel.UUID) error) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = run(id); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateAdHocDelivery handles POST /api/v1/deliveries/adhoc.
func (s *Server) CreateAdHocDelivery(ctx echo.Context) error {
	var req CreateAdHocDeliveryRequest
	if err := bindAndValidate(ctx, &req); err != nil {
		return err
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, err)
	}
	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewCreateAdHocDeliveryCommand(orderID, driverID, req.Date)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CreateAdHoc.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// GetPendingDeliveries handles GET /api/v1/deliveries/unassigned.
func (s *Server) GetPendingDeliveries(ctx echo.Context) error {
	query := queries.NewGetPendingDeliveriesQuery()

	deliveries, err := s.handlers.PendingDeliveries.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]PendingDeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		response[i] = PendingDeliveryResponse{
			ID:         d.ID.String(),
			OrderID:    d.OrderID.String(),
			Street:     d.Street,
			City:       d.City,
			Attempt:    d.Attempt,
			AdHoc:      d.AdHoc,
			WindowFrom: d.WindowFrom,
			WindowTo:   d.WindowTo,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// MarkDeliveryInTransit handles POST /api/v1/deliveries/:id/transit.
func (s *Server) MarkDeliveryInTransit(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewMarkDeliveryInTransitCommand(id)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.MarkInTransit.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// MarkDeliveryArrived handles POST /api/v1/deliveries/:id/arrived.
func (s *Server) MarkDeliveryArrived(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	cmd, err := commands.NewMarkDeliveryArrivedCommand(id)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.MarkArrived.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteDelivery handles POST /api/v1/deliveries/:id/complete.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req CompleteDeliveryRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return err
	}

	proofKind := delivery.ProofSignature
	if req.ProofKind == "photo" {
		proofKind = delivery.ProofPhoto
	}

	cmd, err := commands.NewCompleteDeliveryCommand(id, proofKind, req.ProofReference, req.DeliveredAt)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.CompleteDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FailDelivery handles POST /api/v1/deliveries/:id/fail.
func (s *Server) FailDelivery(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req FailDeliveryRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewFailDeliveryAttemptCommand(id, req.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.FailDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReturnDelivery handles POST /api/v1/deliveries/:id/return.
func (s *Server) ReturnDelivery(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}

	var req ReturnDeliveryRequest
	if err = bindAndValidate(ctx, &req); err != nil {
		return err
	}

	cmd, err := commands.NewReturnDeliveryCommand(id, req.Reason)
	if err != nil {
		return badRequest(ctx, err)
	}

	if err = s.handlers.ReturnDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func bindAndValidate(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return badRequest(ctx, errs.NewValueIsInvalidError("request body"))
	}
	if err := ctx.Validate(req); err != nil {
		return badRequest(ctx, err)
	}
	return nil
}

func pathID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

func parsePriority(name string) order.Priority {
	switch name {
	case "low":
		return order.PriorityLow
	case "high":
		return order.PriorityHigh
	case "urgent":
		return order.PriorityUrgent
	default:
		return order.PriorityNormal
	}
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

// errorResponse maps application errors onto HTTP status codes.
func errorResponse(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrMissingProofOfDelivery):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrencyConflict),
		errors.Is(err, errs.ErrInsufficientStock),
		errors.Is(err, errs.ErrCapacityExceeded):
		code = http.StatusConflict
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
