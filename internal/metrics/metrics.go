package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickcourt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickcourt_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickcourt_bookings_created_total",
			Help: "Total number of bookings created",
		},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickcourt_booking_conflicts_total",
			Help: "Total number of booking attempts rejected due to slot conflicts",
		},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickcourt_booking_transitions_total",
			Help: "Total number of booking status transitions",
		},
		[]string{"from", "to"},
	)

	FacilityStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickcourt_facility_status_changes_total",
			Help: "Total number of facility moderation decisions",
		},
		[]string{"status"},
	)

	ReviewsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickcourt_reviews_created_total",
			Help: "Total number of reviews created",
		},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickcourt_notifications_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quickcourt_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingCreated() {
	BookingsCreatedTotal.Inc()
}

func RecordBookingConflict() {
	BookingConflictsTotal.Inc()
}

func RecordBookingTransition(from, to string) {
	BookingTransitionsTotal.WithLabelValues(from, to).Inc()
}

func RecordFacilityStatusChange(status string) {
	FacilityStatusChangesTotal.WithLabelValues(status).Inc()
}

func RecordReviewCreated() {
	ReviewsCreatedTotal.Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsSentTotal.WithLabelValues(notifType, status).Inc()
}
