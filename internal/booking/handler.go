package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"quickcourt/internal/api"
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

// CheckAvailability godoc
// @Summary      Check slot availability
// @Description  Checks whether a time slot on a court is free. Only pending and confirmed bookings block a slot. If booking data cannot be read the slot is reported unavailable (503), never free.
// @Tags         bookings
// @Produce      json
// @Param        facilityID  path      int     true  "Facility ID"
// @Param        courtID     path      int     true  "Court ID"
// @Param        date        query     string  true  "Date (YYYY-MM-DD)"
// @Param        start_hour  query     int     true  "Start hour (0-23)"
// @Param        duration    query     int     true  "Duration in hours (1-6)"
// @Success      200         {object}  Availability
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      503         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/courts/{courtID}/availability [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	facilityID, courtID, ok := courtParams(c)
	if !ok {
		return
	}

	startHour, err := strconv.Atoi(c.Query("start_hour"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_hour"})
		return
	}
	duration, err := strconv.Atoi(c.Query("duration"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration"})
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), facilityID, courtID, c.Query("date"), startHour, duration)
	if err != nil {
		h.writeError(c, err, "Failed to check availability")
		return
	}

	c.JSON(http.StatusOK, availability)
}

// Create godoc
// @Summary      Book a court slot
// @Description  Creates a pending booking for a time slot. The total price is the court's hourly rate times the duration, captured at creation time. Returns 409 when the slot is already taken.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        facilityID  path      int                   true  "Facility ID"
// @Param        courtID     path      int                   true  "Court ID"
// @Param        request     body      CreateBookingRequest  true  "Booking data"
// @Success      201         {object}  Booking
// @Failure      400         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      409         {object}  api.ErrorResponse
// @Failure      503         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/courts/{courtID}/bookings [post]
func (h *Handler) Create(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	facilityID, courtID, ok := courtParams(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondWithBindingError(c, err)
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), userID, facilityID, courtID, req)
	if err != nil {
		h.writeError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListMine godoc
// @Summary      List own bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithDetails
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// Cancel godoc
// @Summary      Cancel a booking
// @Description  Cancels the caller's own confirmed booking, freeing the slot. Only confirmed bookings can be cancelled.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		h.writeError(c, err, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// SetStatus godoc
// @Summary      Confirm or reject a booking
// @Description  Facility owner decision on a pending booking. Confirmed keeps the slot blocked, rejected frees it. Any other transition returns 409.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        facilityID  path      int                  true  "Facility ID"
// @Param        bookingID   path      int                  true  "Booking ID"
// @Param        request     body      UpdateStatusRequest  true  "New status"
// @Success      200         {object}  Booking
// @Failure      400         {object}  api.ErrorResponse
// @Failure      403         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Failure      409         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/bookings/{bookingID}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	actorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	facilityID, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondWithBindingError(c, err)
		return
	}

	booking, err := h.service.SetStatus(c.Request.Context(), actorID, facilityID, bookingID, Status(req.Status))
	if err != nil {
		h.writeError(c, err, "Failed to update booking status")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListForFacility godoc
// @Summary      List bookings for a facility
// @Description  Facility owner view of all bookings across the facility's courts.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        facilityID  path      int  true  "Facility ID"
// @Success      200         {array}   BookingWithDetails
// @Failure      403         {object}  api.ErrorResponse
// @Failure      404         {object}  api.ErrorResponse
// @Router       /facilities/{facilityID}/bookings [get]
func (h *Handler) ListForFacility(c *gin.Context) {
	actorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	facilityID, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return
	}

	bookings, err := h.service.ListByFacility(c.Request.Context(), actorID, facilityID)
	if err != nil {
		h.writeError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// Analytics godoc
// @Summary      Booking analytics
// @Description  Admin booking counts grouped by day or by facility within a time range.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        group_by  query     string  false  "Grouping: day or facility"  default(day)
// @Param        from      query     string  false  "Range start (RFC3339)"
// @Param        to        query     string  false  "Range end (RFC3339)"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  api.ErrorResponse
// @Failure      500       {object}  api.ErrorResponse
// @Router       /admin/analytics/bookings [get]
func (h *Handler) Analytics(c *gin.Context) {
	from, to, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupBy := c.DefaultQuery("group_by", "day")
	var result interface{}
	switch groupBy {
	case "day":
		result, err = h.service.StatsByDay(c.Request.Context(), from, to)
	case "facility":
		result, err = h.service.StatsByFacility(c.Request.Context(), from, to)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "group_by must be day or facility"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group_by": groupBy,
		"from":     from,
		"to":       to,
		"data":     result,
	})
}

func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("from must be RFC3339")
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("to must be RFC3339")
		}
		to = parsed
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, errors.New("from must not be after to")
	}

	return from, to, nil
}

func courtParams(c *gin.Context) (facilityID, courtID int, ok bool) {
	facilityID, err := strconv.Atoi(c.Param("facilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid facility ID"})
		return 0, 0, false
	}
	courtID, err = strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid court ID"})
		return 0, 0, false
	}
	return facilityID, courtID, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var conflictErr *ConflictError
	var transitionErr *InvalidTransitionError

	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":                "This time slot is already booked for the selected court",
			"conflicting_bookings": conflictErr.Conflicting,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, facility.ErrCourtNotFound),
		errors.Is(err, facility.ErrFacilityNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotBookingOwner), errors.Is(err, ErrNotFacilityOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDataUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Booking data is temporarily unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
