package buses

import (
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

// SearchBuses handles GET /buses (public catalog search)
func (c *Controller) SearchBuses(ctx *gin.Context) {
	var query BusSearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.SearchBuses(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to search buses", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Buses retrieved successfully", result, nil)
}

// ListBuses handles GET /admin/buses
func (c *Controller) ListBuses(ctx *gin.Context) {
	var query BusListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListBuses(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list buses", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Buses retrieved successfully", result, nil)
}

// GetBus handles GET /admin/buses/:busId
func (c *Controller) GetBus(ctx *gin.Context) {
	result, err := c.service.GetBus(ctx.Request.Context(), ctx.Param("busId"))
	if err != nil {
		switch err {
		case ErrInvalidBusID:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid bus id", nil, nil)
		case ErrBusNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Bus not found", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get bus", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bus retrieved successfully", result, nil)
}

// CreateBus handles POST /admin/buses
func (c *Controller) CreateBus(ctx *gin.Context) {
	var req CreateBusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.CreateBus(ctx.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrDuplicateBusNumber:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Bus number already exists", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create bus", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Bus created successfully", result, nil)
}

// UpdateBus handles PUT /admin/buses/:busId
func (c *Controller) UpdateBus(ctx *gin.Context) {
	var req UpdateBusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.UpdateBus(ctx.Request.Context(), ctx.Param("busId"), req)
	if err != nil {
		switch err {
		case ErrInvalidBusID:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid bus id", nil, nil)
		case ErrBusNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Bus not found", nil, nil)
		case ErrSeatsInUse:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Seat capacity cannot change while seats are booked", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update bus", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bus updated successfully", result, nil)
}

// DeleteBus handles DELETE /admin/buses/:busId
func (c *Controller) DeleteBus(ctx *gin.Context) {
	err := c.service.DeleteBus(ctx.Request.Context(), ctx.Param("busId"))
	if err != nil {
		switch err {
		case ErrInvalidBusID:
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid bus id", nil, nil)
		case ErrBusNotFound:
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Bus not found", nil, nil)
		case ErrSeatsInUse:
			response.RespondJSON(ctx, "error", http.StatusConflict, "Bus has booked seats and cannot be deleted", nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to delete bus", nil, nil)
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bus deleted successfully", nil, nil)
}
