package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourism-api/domain"
	"tourism-api/dto"
	"tourism-api/repositories"
	"tourism-api/services"
)

// GuideController maneja los endpoints HTTP de guías
type GuideController struct {
	service services.GuideService
}

// NewGuideController crea una nueva instancia del controlador
func NewGuideController(service services.GuideService) *GuideController {
	return &GuideController{service: service}
}

// CreateGuide maneja POST /guides
func (ctrl *GuideController) CreateGuide(c *gin.Context) {
	var req dto.CreateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	guide, err := ctrl.service.Create(c.Request.Context(), req)
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Guide created successfully",
		Data:    guide,
	})
}

// GetGuideByID maneja GET /guides/:id
func (ctrl *GuideController) GetGuideByID(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	guide, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, guide)
}

// UpdateGuide maneja PUT /guides/:id
// Acepta un request parcial: solo los campos presentes se validan y reemplazan
func (ctrl *GuideController) UpdateGuide(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	var req dto.UpdateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_body",
			Message: err.Error(),
		})
		return
	}

	guide, err := ctrl.service.Update(c.Request.Context(), id, req)
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Guide updated successfully",
		Data:    guide,
	})
}

// DeleteGuide maneja DELETE /guides/:id
func (ctrl *GuideController) DeleteGuide(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Guide deleted successfully",
	})
}

// GetAllGuides maneja GET /guides
func (ctrl *GuideController) GetAllGuides(c *gin.Context) {
	guides, err := ctrl.service.GetAll(c.Request.Context())
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, guides)
}

// GetGuidesBySpecialization maneja GET /guides/specialization/:specialization
func (ctrl *GuideController) GetGuidesBySpecialization(c *gin.Context) {
	guides, err := ctrl.service.GetBySpecialization(c.Request.Context(), c.Param("specialization"))
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, guides)
}

// GetGuidesByAvailability maneja GET /guides/availability/:availability
func (ctrl *GuideController) GetGuidesByAvailability(c *gin.Context) {
	guides, err := ctrl.service.GetByAvailability(c.Request.Context(), c.Param("availability"))
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, guides)
}

// GetGuidesByDistrict maneja GET /guides/district/:district
func (ctrl *GuideController) GetGuidesByDistrict(c *gin.Context) {
	guides, err := ctrl.service.GetByDistrict(c.Request.Context(), c.Param("district"))
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, guides)
}

// SearchGuides maneja GET /guides/search?q=
func (ctrl *GuideController) SearchGuides(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "missing_query",
			Message: "Query parameter 'q' is required",
		})
		return
	}

	guides, err := ctrl.service.Search(c.Request.Context(), query)
	if err != nil {
		respondGuideError(c, err)
		return
	}

	c.JSON(http.StatusOK, guides)
}

// parseObjectID obtiene y valida el parámetro :id de la URL
func parseObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid listing ID",
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondGuideError traduce un error del servicio al status HTTP correspondiente
func respondGuideError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
		})
	case errors.Is(err, repositories.ErrGuideNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "guide_not_found",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}
