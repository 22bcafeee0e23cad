// Package http exposes the dispatch core over a REST surface. Handlers
// translate between transport DTOs and application commands/queries; all
// business rules stay behind the use case layer.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// Server wires the REST routes to command and query handlers.
type Server struct {
	createOrderHandler     commands.CreateOrderCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler
	advanceOrderHandler    commands.AdvanceOrderCommandHandler
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler
	regenerateCodeHandler  commands.RegenerateConfirmationCodeCommandHandler
	acceptOfferHandler     commands.AcceptOfferCommandHandler
	declineOfferHandler    commands.DeclineOfferCommandHandler
	createCourierHandler   commands.CreateCourierCommandHandler
	setAvailabilityHandler commands.SetCourierAvailabilityCommandHandler
	reportLocationHandler  commands.ReportLocationCommandHandler

	getOrderHandler        queries.GetOrderQueryHandler
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	getCouriersHandler     queries.GetCouriersQueryHandler
	getPositionHandler     queries.GetCourierPositionQueryHandler
}

// NewServer creates the REST server with all required handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	advanceOrderHandler commands.AdvanceOrderCommandHandler,
	confirmDeliveryHandler commands.ConfirmDeliveryCommandHandler,
	regenerateCodeHandler commands.RegenerateConfirmationCodeCommandHandler,
	acceptOfferHandler commands.AcceptOfferCommandHandler,
	declineOfferHandler commands.DeclineOfferCommandHandler,
	createCourierHandler commands.CreateCourierCommandHandler,
	setAvailabilityHandler commands.SetCourierAvailabilityCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getCouriersHandler queries.GetCouriersQueryHandler,
	getPositionHandler queries.GetCourierPositionQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		cancelOrderHandler:     cancelOrderHandler,
		advanceOrderHandler:    advanceOrderHandler,
		confirmDeliveryHandler: confirmDeliveryHandler,
		regenerateCodeHandler:  regenerateCodeHandler,
		acceptOfferHandler:     acceptOfferHandler,
		declineOfferHandler:    declineOfferHandler,
		createCourierHandler:   createCourierHandler,
		setAvailabilityHandler: setAvailabilityHandler,
		reportLocationHandler:  reportLocationHandler,
		getOrderHandler:        getOrderHandler,
		getActiveOrdersHandler: getActiveOrdersHandler,
		getCouriersHandler:     getCouriersHandler,
		getPositionHandler:     getPositionHandler,
	}
}

// RegisterRoutes mounts the REST surface under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/api/v1")

	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders/active", s.GetActiveOrders)
	v1.GET("/orders/:orderId", s.GetOrder)
	v1.POST("/orders/:orderId/cancel", s.CancelOrder)
	v1.POST("/orders/:orderId/advance", s.AdvanceOrder)
	v1.POST("/orders/:orderId/confirm", s.ConfirmDelivery)
	v1.POST("/orders/:orderId/confirmation-code", s.RegenerateConfirmationCode)

	v1.POST("/offers/:offerId/accept", s.AcceptOffer)
	v1.POST("/offers/:offerId/decline", s.DeclineOffer)

	v1.POST("/couriers", s.CreateCourier)
	v1.GET("/couriers", s.GetCouriers)
	v1.PUT("/couriers/:courierId/availability", s.SetCourierAvailability)
	v1.POST("/couriers/:courierId/location", s.ReportLocation)
	v1.GET("/couriers/:courierId/location", s.GetCourierPosition)
}

// apiError is the JSON error body for every failed request.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorResponse(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, offer.ErrOfferNoLongerValid),
		errors.Is(err, order.ErrStaleState),
		errors.Is(err, courier.ErrStaleState),
		errors.Is(err, order.ErrAlreadyTerminal):
		status = http.StatusConflict
	case errors.Is(err, order.ErrUnauthorizedActor):
		status = http.StatusForbidden
	case errors.Is(err, order.ErrInvalidConfirmationCode),
		errors.Is(err, order.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, apiError{Code: status, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, apiError{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}

type geoPointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type addressDTO struct {
	Street string       `json:"street"`
	Geo    *geoPointDTO `json:"geo,omitempty"`
}

func (d addressDTO) toDomain() (kernel.Address, error) {
	var geo *kernel.GeoPoint
	if d.Geo != nil {
		point, err := kernel.NewGeoPoint(d.Geo.Lat, d.Geo.Lon)
		if err != nil {
			return kernel.Address{}, err
		}
		geo = &point
	}

	return kernel.NewAddress(d.Street, geo)
}

type createOrderRequest struct {
	RestaurantID string     `json:"restaurant_id"`
	CustomerID   string     `json:"customer_id"`
	Pickup       addressDTO `json:"pickup"`
	Dropoff      addressDTO `json:"dropoff"`
	Subtotal     int64      `json:"subtotal"`
	DeliveryFee  int64      `json:"delivery_fee"`
	Payment      string     `json:"payment"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	pickup, err := req.Pickup.toDomain()
	if err != nil {
		return errorResponse(ctx, err)
	}
	dropoff, err := req.Dropoff.toDomain()
	if err != nil {
		return errorResponse(ctx, err)
	}
	subtotal, err := kernel.NewMoney(req.Subtotal)
	if err != nil {
		return errorResponse(ctx, err)
	}
	deliveryFee, err := kernel.NewMoney(req.DeliveryFee)
	if err != nil {
		return errorResponse(ctx, err)
	}
	payment, err := order.PaymentMethodFromString(req.Payment)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, restaurantID, customerID, pickup, dropoff, subtotal, deliveryFee, payment)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createOrderResponse{ID: orderID.String()})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:orderId/cancel. The REST surface
// is the back office, so cancellations run as an admin actor.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req cancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, order.AdminActor(kernel.NewUUID()), req.Reason)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type advanceOrderRequest struct {
	CourierID string `json:"courier_id"`
	Target    string `json:"target"`
}

// AdvanceOrder handles POST /api/v1/orders/:orderId/advance.
func (s *Server) AdvanceOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req advanceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, courierID, req.Target)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.advanceOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type confirmDeliveryRequest struct {
	CourierID string `json:"courier_id"`
	Code      string `json:"code"`
}

// ConfirmDelivery handles POST /api/v1/orders/:orderId/confirm.
func (s *Server) ConfirmDelivery(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req confirmDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, courierID, req.Code)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.confirmDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegenerateConfirmationCode handles POST /api/v1/orders/:orderId/confirmation-code.
func (s *Server) RegenerateConfirmationCode(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewRegenerateConfirmationCodeCommand(orderID, order.AdminActor(kernel.NewUUID()))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.regenerateCodeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type offerDecisionRequest struct {
	CourierID string `json:"courier_id"`
}

// AcceptOffer handles POST /api/v1/offers/:offerId/accept.
func (s *Server) AcceptOffer(ctx echo.Context) error {
	offerID, err := pathUUID(ctx, "offerId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req offerDecisionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewAcceptOfferCommand(offerID, courierID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.acceptOfferHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeclineOffer handles POST /api/v1/offers/:offerId/decline.
func (s *Server) DeclineOffer(ctx echo.Context) error {
	offerID, err := pathUUID(ctx, "offerId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req offerDecisionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewDeclineOfferCommand(offerID, courierID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.declineOfferHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type createCourierRequest struct {
	Name string `json:"name"`
}

type createCourierResponse struct {
	ID string `json:"id"`
}

// CreateCourier handles POST /api/v1/couriers. New couriers start offline.
func (s *Server) CreateCourier(ctx echo.Context) error {
	var req createCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(courierID, req.Name)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.createCourierHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, createCourierResponse{ID: courierID.String()})
}

type setAvailabilityRequest struct {
	Online bool `json:"online"`
}

// SetCourierAvailability handles PUT /api/v1/couriers/:courierId/availability.
func (s *Server) SetCourierAvailability(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req setAvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewSetCourierAvailabilityCommand(courierID, req.Online)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.setAvailabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type reportLocationRequest struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	CapturedAt time.Time `json:"captured_at"`
}

// ReportLocation handles POST /api/v1/couriers/:courierId/location. Accepted
// and discarded reports both return 202; the relay keeps only the freshest
// sample.
func (s *Server) ReportLocation(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req reportLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	point, err := kernel.NewGeoPoint(req.Lat, req.Lon)
	if err != nil {
		return errorResponse(ctx, err)
	}

	capturedAt := req.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	cmd, err := commands.NewReportLocationCommand(courierID, point, capturedAt)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

type orderResponse struct {
	ID            string     `json:"id"`
	Number        string     `json:"number"`
	Status        string     `json:"status"`
	CourierID     *string    `json:"courier_id,omitempty"`
	RestaurantID  string     `json:"restaurant_id"`
	CustomerID    string     `json:"customer_id"`
	PickupStreet  string     `json:"pickup_street"`
	DropoffStreet string     `json:"dropoff_street"`
	Subtotal      int64      `json:"subtotal"`
	DeliveryFee   int64      `json:"delivery_fee"`
	Payment       string     `json:"payment"`
	Earnings      *int64     `json:"earnings,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "orderId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponse{
		ID:            resp.ID.String(),
		Number:        resp.Number,
		Status:        resp.Status,
		CourierID:     uuidString(resp.CourierID),
		RestaurantID:  resp.RestaurantID.String(),
		CustomerID:    resp.CustomerID.String(),
		PickupStreet:  resp.PickupStreet,
		DropoffStreet: resp.DropoffStreet,
		Subtotal:      resp.Subtotal,
		DeliveryFee:   resp.DeliveryFee,
		Payment:       resp.Payment,
		Earnings:      resp.Earnings,
		CancelReason:  resp.CancelReason,
		CreatedAt:     resp.CreatedAt,
		DeliveredAt:   resp.DeliveredAt,
		CancelledAt:   resp.CancelledAt,
	})
}

type activeOrderResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	CourierID *string   `json:"courier_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.getActiveOrdersHandler.Handle(
		ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]activeOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = activeOrderResponse{
			ID:        o.ID.String(),
			Number:    o.Number,
			Status:    o.Status,
			CourierID: uuidString(o.CourierID),
			CreatedAt: o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type courierResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Availability    string     `json:"availability"`
	LastAssignedAt  *time.Time `json:"last_assigned_at,omitempty"`
	Balance         int64      `json:"balance"`
	LifetimeEarned  int64      `json:"lifetime_earned"`
	DeliveriesCount int        `json:"deliveries_count"`
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.getCouriersHandler.Handle(
		ctx.Request().Context(), queries.NewGetCouriersQuery())
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]courierResponse, len(couriers))
	for i, c := range couriers {
		response[i] = courierResponse{
			ID:              c.ID.String(),
			Name:            c.Name,
			Availability:    c.Availability,
			LastAssignedAt:  c.LastAssignedAt,
			Balance:         c.BalanceCents,
			LifetimeEarned:  c.LifetimeCents,
			DeliveriesCount: c.DeliveriesCount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type positionResponse struct {
	CourierID  string    `json:"courier_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	CapturedAt time.Time `json:"captured_at"`
}

// GetCourierPosition handles GET /api/v1/couriers/:courierId/location.
func (s *Server) GetCourierPosition(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewGetCourierPositionQuery(courierID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	resp, err := s.getPositionHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, positionResponse{
		CourierID:  resp.CourierID.String(),
		Lat:        resp.Lat,
		Lon:        resp.Lon,
		CapturedAt: resp.CapturedAt,
	})
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
