package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourism-api/domain"
	"tourism-api/dto"
	"tourism-api/repositories"
	"tourism-api/services"
)

// HomestayController maneja los endpoints HTTP de homestays
type HomestayController struct {
	service services.HomestayService
}

// NewHomestayController crea una nueva instancia del controlador
func NewHomestayController(service services.HomestayService) *HomestayController {
	return &HomestayController{service: service}
}

// CreateHomestay maneja POST /homestays
// El body no acepta status ni timestamps: los administra el sistema
func (ctrl *HomestayController) CreateHomestay(c *gin.Context) {
	var req dto.CreateHomestayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	homestay, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Homestay created successfully",
		Data:    homestay,
	})
}

// GetHomestayByID maneja GET /homestays/:id
func (ctrl *HomestayController) GetHomestayByID(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	homestay, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, homestay)
}

// UpdateHomestay maneja PUT /homestays/:id
// Acepta un request parcial; el status puede cambiar a cualquier valor del enum
func (ctrl *HomestayController) UpdateHomestay(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	var req dto.UpdateHomestayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	homestay, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Homestay updated successfully",
		Data:    homestay,
	})
}

// DeleteHomestay maneja DELETE /homestays/:id
func (ctrl *HomestayController) DeleteHomestay(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Homestay deleted successfully",
	})
}

// GetAllHomestays maneja GET /homestays
func (ctrl *HomestayController) GetAllHomestays(c *gin.Context) {
	homestays, err := ctrl.service.GetAll(c.Request.Context())
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, homestays)
}

// GetHomestaysByDistrict maneja GET /homestays/district/:district
func (ctrl *HomestayController) GetHomestaysByDistrict(c *gin.Context) {
	homestays, err := ctrl.service.GetByDistrict(c.Request.Context(), c.Param("district"))
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, homestays)
}

// GetHomestaysByStatus maneja GET /homestays/status/:status
func (ctrl *HomestayController) GetHomestaysByStatus(c *gin.Context) {
	homestays, err := ctrl.service.GetByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, homestays)
}

// GetHomestaysByPriceRange maneja GET /homestays/price?min_price=&max_price=
// Los resultados vienen ordenados ascendente por precio base
func (ctrl *HomestayController) GetHomestaysByPriceRange(c *gin.Context) {
	var req dto.PriceRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
		return
	}

	homestays, err := ctrl.service.GetByPriceRange(c.Request.Context(), req)
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, homestays)
}

// SearchHomestays maneja GET /homestays/search?q=
func (ctrl *HomestayController) SearchHomestays(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "missing_query",
			Message: "Query parameter 'q' is required",
		})
		return
	}

	homestays, err := ctrl.service.Search(c.Request.Context(), query)
	if err != nil {
		respondHomestayError(c, err)
		return
	}

	c.JSON(http.StatusOK, homestays)
}

// respondHomestayError traduce un error del servicio al status HTTP correspondiente
func respondHomestayError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
		})
	case errors.Is(err, repositories.ErrHomestayNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "homestay_not_found",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}
