package facility

import (
	"errors"
	"net/http"
	"strconv"

	"quickcourt/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create facility
// @Description  Registers a new facility with its sports and courts. The facility starts in pending status until an admin approves it.
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateFacilityRequest  true  "Facility data"
// @Success      201      {object}  Facility
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /facilities [post]
func (h *Handler) Create(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateSport) || errors.Is(err, ErrDuplicateCourt) || errors.Is(err, ErrInvalidSchedule) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create facility"})
		return
	}

	c.JSON(http.StatusCreated, facility)
}

// List godoc
// @Summary      List approved facilities
// @Tags         facilities
// @Produce      json
// @Param        city    query     string  false  "Filter by city"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {array}   Facility
// @Failure      500     {object}  api.ErrorResponse
// @Router       /facilities [get]
func (h *Handler) List(c *gin.Context) {
	city := c.Query("city")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	facilities, err := h.service.ListApproved(c.Request.Context(), city, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facilities"})
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// Get godoc
// @Summary      Get facility by ID
// @Description  Returns the facility with its sports, schedules and courts.
// @Tags         facilities
// @Produce      json
// @Param        facilityID  path      int  true  "Facility ID"
// @Success      200         {object}  Facility
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	facility, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrFacilityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facility"})
		return
	}

	c.JSON(http.StatusOK, facility)
}

// ListMine godoc
// @Summary      List own facilities
// @Description  Returns facilities owned by the authenticated facility owner.
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Facility
// @Failure      500  {object}  api.ErrorResponse
// @Router       /owner/facilities [get]
func (h *Handler) ListMine(c *gin.Context) {
	ownerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	facilities, err := h.service.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facilities"})
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// Update godoc
// @Summary      Update facility
// @Description  Updates facility details. Owner only.
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        facilityID  path      int                    true  "Facility ID"
// @Param        request     body      UpdateFacilityRequest  true  "Fields to update"
// @Success      200         {object}  Facility
// @Failure      400         {object}  api.ErrorResponse
// @Failure      403         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID} [patch]
func (h *Handler) Update(c *gin.Context) {
	actorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	var req UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	facility, err := h.service.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrFacilityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own facilities"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update facility"})
		}
		return
	}

	c.JSON(http.StatusOK, facility)
}

// Delete godoc
// @Summary      Delete facility
// @Tags         facilities
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path      int  true  "Facility ID"
// @Success      200         {object}  api.MessageResponse
// @Failure      400         {object}  api.ErrorResponse
// @Failure      403         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID} [delete]
func (h *Handler) Delete(c *gin.Context) {
	actorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	role, _ := auth.GetUserRole(c)
	err = h.service.Delete(c.Request.Context(), actorID, id, role == auth.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrFacilityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own facilities"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete facility"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Facility deleted"})
}

// ListForModeration godoc
// @Summary      List facilities by status
// @Description  Returns facilities filtered by moderation status. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Status filter (pending, approved, rejected)"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {array}   Facility
// @Failure      400     {object}  api.ErrorResponse
// @Router       /admin/facilities [get]
func (h *Handler) ListForModeration(c *gin.Context) {
	status := c.DefaultQuery("status", StatusPending)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	facilities, err := h.service.ListByStatus(c.Request.Context(), status, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, approved or rejected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch facilities"})
		return
	}

	c.JSON(http.StatusOK, facilities)
}

// SetStatus godoc
// @Summary      Approve or reject facility
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        facilityID  path      int               true  "Facility ID"
// @Param        request     body      SetStatusRequest  true  "New status"
// @Success      200         {object}  api.MessageResponse
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /admin/facilities/{facilityID}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrFacilityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Facility not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Facility status updated"})
}

// SetCourtStatus godoc
// @Summary      Activate or deactivate a court
// @Description  Owner only. Inactive courts cannot be booked.
// @Tags         facilities
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        courtID  path      int                    true  "Court ID"
// @Param        request  body      SetCourtStatusRequest  true  "New status"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /courts/{courtID}/status [patch]
func (h *Handler) SetCourtStatus(c *gin.Context) {
	actorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid court ID"})
		return
	}

	var req SetCourtStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetCourtStatus(c.Request.Context(), actorID, courtID, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrCourtNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage courts of your own facilities"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update court status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Court status updated"})
}
