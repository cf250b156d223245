package reservations

import (
	"errors"
	"net/http"

	"swiftbus/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetBusAvailability handles GET /buses/:busId. The session is optional; the
// snapshot widens with the viewer's role.
func (c *Controller) GetBusAvailability(ctx *gin.Context) {
	var viewer *Viewer
	if userID := ctx.GetString("user_id"); userID != "" {
		viewer = &Viewer{
			UserID: userID,
			Role:   ctx.GetString("user_role"),
		}
	}

	result, err := c.service.GetAvailability(ctx.Request.Context(), ctx.Param("busId"), viewer)
	if err != nil {
		c.respondError(ctx, err, "Failed to get bus availability")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bus retrieved successfully", result, nil)
}

// ReserveSeat handles POST /reservations/:busId
func (c *Controller) ReserveSeat(ctx *gin.Context) {
	var req ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID := ctx.GetString("user_id")
	result, err := c.service.Reserve(ctx.Request.Context(), ctx.Param("busId"), userID, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to reserve seat")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seat reserved successfully", result, nil)
}

// ReserveSeatBatch handles POST /reservations/:busId/batch
func (c *Controller) ReserveSeatBatch(ctx *gin.Context) {
	var req BatchReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID := ctx.GetString("user_id")
	result, err := c.service.ReserveBatch(ctx.Request.Context(), ctx.Param("busId"), userID, req)
	if err != nil {
		c.respondError(ctx, err, "Failed to reserve seats")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seats reserved successfully", result, nil)
}

// ListMyReservations handles GET /reservations/me (the rider's live holds)
func (c *Controller) ListMyReservations(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	result, err := c.service.ListMySeats(ctx.Request.Context(), userID)
	if err != nil {
		c.respondError(ctx, err, "Failed to list reservations")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", result, nil)
}

// CancelReservation handles POST /reservations/:busId/cancel
func (c *Controller) CancelReservation(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	released, err := c.service.Cancel(ctx.Request.Context(), ctx.Param("busId"), userID)
	if err != nil {
		c.respondError(ctx, err, "Failed to cancel reservation")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation cancelled successfully", gin.H{
		"released_seats": released,
	}, nil)
}

// ResetBus handles POST /admin/buses/:busId/reset
func (c *Controller) ResetBus(ctx *gin.Context) {
	cleared, err := c.service.AdminReset(ctx.Request.Context(), ctx.Param("busId"))
	if err != nil {
		c.respondError(ctx, err, "Failed to reset bus")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bus reset successfully", gin.H{
		"cleared_bookings": cleared,
	}, nil)
}

func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	var conflict *SeatConflictError
	if errors.As(err, &conflict) {
		response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are already booked", gin.H{
			"conflicting_seats": conflict.Seats,
		}, nil)
		return
	}

	switch err {
	case ErrInvalidBusID:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid bus id", nil, nil)
	case ErrInvalidUserID:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user session", nil, nil)
	case ErrBusNotFound:
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Bus not found", nil, nil)
	case ErrBusInactive:
		response.RespondJSON(ctx, "error", http.StatusConflict, "Bus is not open for booking", nil, nil)
	case ErrSeatOutOfRange:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Seat number out of range", nil, nil)
	case ErrEmptyBatch:
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "No seats requested", nil, nil)
	case ErrNoReservation:
		response.RespondJSON(ctx, "error", http.StatusNotFound, "No reservation found", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}
