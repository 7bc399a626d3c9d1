package facility

import (
	"time"

	"github.com/lib/pq"
)

// Facility moderation statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Court statuses.
const (
	CourtActive   = "active"
	CourtInactive = "inactive"
)

type Facility struct {
	ID          int            `db:"id" json:"id"`
	OwnerID     int            `db:"owner_id" json:"owner_id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	Address     string         `db:"address" json:"address"`
	City        string         `db:"city" json:"city"`
	State       string         `db:"state" json:"state"`
	Pincode     string         `db:"pincode" json:"pincode"`
	MapLink     string         `db:"map_link" json:"map_link"`
	Amenities   pq.StringArray `db:"amenities" json:"amenities" swaggertype:"array,string"`
	Photos      pq.StringArray `db:"photos" json:"photos" swaggertype:"array,string"`
	Status      string         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`

	Sports []Sport `db:"-" json:"sports,omitempty"`
}

type Sport struct {
	ID           int       `db:"id" json:"id"`
	FacilityID   int       `db:"facility_id" json:"facility_id"`
	Name         string    `db:"name" json:"name"`
	PricePerHour int64     `db:"price_per_hour" json:"price_per_hour"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`

	Schedule []ScheduleEntry `db:"-" json:"schedule,omitempty"`
	Courts   []Court         `db:"-" json:"courts,omitempty"`
}

// ScheduleEntry is one weekday of a sport's weekly schedule.
// Weekday follows time.Weekday numbering: 0 is Sunday.
type ScheduleEntry struct {
	SportID   int    `db:"sport_id" json:"-"`
	Weekday   int    `db:"weekday" json:"weekday"`
	OpenTime  string `db:"open_time" json:"open_time"`
	CloseTime string `db:"close_time" json:"close_time"`
	IsOpen    bool   `db:"is_open" json:"is_open"`
}

type Court struct {
	ID        int       `db:"id" json:"id"`
	SportID   int       `db:"sport_id" json:"sport_id"`
	Name      string    `db:"name" json:"name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CourtInfo is the flattened court lookup the booking writer depends on:
// one query resolves the court's status, its sport's name and price, and
// the owning facility.
type CourtInfo struct {
	CourtID        int    `db:"court_id" json:"court_id"`
	CourtName      string `db:"court_name" json:"court_name"`
	CourtStatus    string `db:"court_status" json:"court_status"`
	SportID        int    `db:"sport_id" json:"sport_id"`
	SportName      string `db:"sport_name" json:"sport_name"`
	PricePerHour   int64  `db:"price_per_hour" json:"price_per_hour"`
	FacilityID     int    `db:"facility_id" json:"facility_id"`
	FacilityStatus string `db:"facility_status" json:"facility_status"`
	OwnerID        int    `db:"owner_id" json:"owner_id"`
}

type CreateFacilityRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Address     string       `json:"address" binding:"required"`
	City        string       `json:"city" binding:"required"`
	State       string       `json:"state"`
	Pincode     string       `json:"pincode"`
	MapLink     string       `json:"map_link"`
	Amenities   []string     `json:"amenities"`
	Photos      []string     `json:"photos"`
	Sports      []SportInput `json:"sports" binding:"required,min=1,dive"`
}

type SportInput struct {
	Name         string          `json:"name" binding:"required"`
	PricePerHour int64           `json:"price_per_hour" binding:"gte=0"`
	Schedule     []ScheduleInput `json:"schedule"`
	Courts       []CourtInput    `json:"courts" binding:"required,min=1,dive"`
}

type ScheduleInput struct {
	Weekday   int    `json:"weekday" binding:"gte=0,lte=6"`
	OpenTime  string `json:"open_time" binding:"required"`
	CloseTime string `json:"close_time" binding:"required"`
	IsOpen    bool   `json:"is_open"`
}

type CourtInput struct {
	Name string `json:"name" binding:"required"`
}

type UpdateFacilityRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`
	State       *string   `json:"state"`
	Pincode     *string   `json:"pincode"`
	MapLink     *string   `json:"map_link"`
	Amenities   *[]string `json:"amenities"`
	Photos      *[]string `json:"photos"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type SetCourtStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// DefaultSchedule mirrors the schedule applied when the owner leaves a
// sport's weekly schedule empty.
func DefaultSchedule() []ScheduleEntry {
	entries := make([]ScheduleEntry, 7)
	for d := 0; d < 7; d++ {
		open, close := "09:00", "21:00"
		switch d {
		case 0: // Sunday
			open, close = "08:00", "20:00"
		case 6: // Saturday
			open, close = "08:00", "22:00"
		}
		entries[d] = ScheduleEntry{
			Weekday:   d,
			OpenTime:  open,
			CloseTime: close,
			IsOpen:    true,
		}
	}
	return entries
}
