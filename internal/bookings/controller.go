package bookings

import (
	"errors"
	"net/http"

	"swiftbus/internal/reservations"
	"swiftbus/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID := ctx.GetString("user_id")
	result, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		var conflict *reservations.SeatConflictError
		if errors.As(err, &conflict) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are already booked", gin.H{
				"conflicting_seats": conflict.Seats,
			}, nil)
			return
		}

		switch err {
		case reservations.ErrInvalidBusID, ErrInvalidID:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid bus id", nil, nil)
		case reservations.ErrBusNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Bus not found", nil, nil)
		case reservations.ErrBusInactive:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Bus is not open for booking", nil, nil)
		case reservations.ErrSeatOutOfRange:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Seat number out of range", nil, nil)
		case ErrDuplicateReference:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Booking reference collision, please retry", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create booking", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", result, nil)
}

// ListBookings handles GET /bookings
func (c *Controller) ListBookings(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	result, err := c.service.ListBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

// GetBooking handles GET /bookings/:reference
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	result, err := c.service.GetBooking(ctx.Request.Context(), userID, ctx.Param("reference"))
	if err != nil {
		switch err {
		case ErrBookingNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Booking not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get booking", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", result, nil)
}
