package review

import (
	"errors"
	"net/http"
	"strconv"

	"quickcourt/internal/auth"
	"quickcourt/internal/facility"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Review a facility
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        facilityID  path      int                  true  "Facility ID"
// @Param        request     body      CreateReviewRequest  true  "Review data"
// @Success      201         {object}  Review
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/reviews [post]
func (h *Handler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	facilityID, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rev, err := h.service.Create(c.Request.Context(), userID, facilityID, req)
	if err != nil {
		if errors.Is(err, facility.ErrFacilityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, rev)
}

// List godoc
// @Summary      List facility reviews
// @Tags         reviews
// @Produce      json
// @Param        facilityID  path      int  true  "Facility ID"
// @Success      200         {object}  Summary
// @Failure      404         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/reviews [get]
func (h *Handler) List(c *gin.Context) {
	facilityID, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	summary, err := h.service.ListByFacility(c.Request.Context(), facilityID)
	if err != nil {
		if errors.Is(err, facility.ErrFacilityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Delete godoc
// @Summary      Delete a review
// @Description  Authors may delete their own reviews, admins may delete any.
// @Tags         reviews
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path      int  true  "Facility ID"
// @Param        reviewID    path      int  true  "Review ID"
// @Success      200         {object}  api.MessageResponse
// @Failure      403         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /admin/facilities/{facilityID}/reviews/{reviewID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	actorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	actorRole, _ := auth.GetUserRole(c)

	reviewID, err := strconv.Atoi(c.Param("reviewID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID, actorRole, reviewID); err != nil {
		switch {
		case errors.Is(err, ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotReviewAuthor):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
