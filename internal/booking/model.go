package booking

import "time"

// DateFormat is the calendar-day format used on the wire and in queries.
const DateFormat = "2006-01-02"

type Booking struct {
	ID         int       `db:"id" json:"id"`
	Reference  string    `db:"reference" json:"reference"`
	FacilityID int       `db:"facility_id" json:"facility_id"`
	CourtID    int       `db:"court_id" json:"court_id"`
	SportName  string    `db:"sport_name" json:"sport_name"`
	UserID     int       `db:"user_id" json:"user_id"`
	Date       time.Time `db:"date" json:"date"`
	StartHour  int       `db:"start_hour" json:"start_hour"`
	Duration   int       `db:"duration" json:"duration"`
	TotalPrice int64     `db:"total_price" json:"total_price"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// EndHour is the exclusive end of the booking's [StartHour, EndHour) interval.
func (b *Booking) EndHour() int {
	return b.StartHour + b.Duration
}

type BookingWithDetails struct {
	Booking
	CourtName    string `db:"court_name" json:"court_name"`
	FacilityName string `db:"facility_name" json:"facility_name"`
	UserName     string `db:"user_name" json:"user_name"`
	UserEmail    string `db:"user_email" json:"user_email"`
}

type CreateBookingRequest struct {
	Date      string `json:"date" binding:"required" example:"2024-06-01"`
	StartHour int    `json:"start_hour" binding:"gte=0,lte=23"`
	Duration  int    `json:"duration" binding:"required,gte=1,lte=6"`
	// Optional; when set it must match the sport the court belongs to.
	SportName string `json:"sport_name"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected"`
}

// Availability is the result of a slot conflict check.
type Availability struct {
	Conflict    bool      `json:"conflict"`
	Conflicting []Booking `json:"conflicting_bookings"`
}
