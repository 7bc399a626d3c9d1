package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"quickcourt/internal/booking"
	"quickcourt/internal/logger"
	"quickcourt/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	eventsChannel  = "bookings:events"

	maxTries = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// BookingEvent is published on the bookings:events channel for dashboard
// consumers.
type BookingEvent struct {
	Event      string    `json:"event"`
	Reference  string    `json:"reference"`
	BookingID  int       `json:"booking_id"`
	FacilityID int       `json:"facility_id"`
	CourtID    int       `json:"court_id"`
	Date       string    `json:"date"`
	StartHour  int       `json:"start_hour"`
	Duration   int       `json:"duration"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal notification job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue notification to %s: %v", to, err)
		return err
	}

	logger.Infof("Notification queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending notification to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send notification to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying notification to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Notification to %s failed after %d attempts", job.To, maxTries)
			metrics.RecordNotification("email", "failed")
			s.saveFailed(job, err)
		}
		return
	}

	metrics.RecordNotification("email", "sent")
	logger.Infof("Notification sent to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Notification moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

// BookingCreated implements booking.Notifier.
func (s *Service) BookingCreated(ctx context.Context, b *booking.Booking, email, name string) {
	subject := "Booking Received - " + b.SportName
	body := fmt.Sprintf(`Hi %s,

We received your booking request.

Reference: %s
Sport: %s
Date: %s
Time: %02d:00 - %02d:00
Total: %d

The facility owner will confirm it shortly.

- QuickCourt Team`, name, b.Reference, b.SportName, b.Date.Format(booking.DateFormat),
		b.StartHour, b.EndHour(), b.TotalPrice)

	if err := s.Send(ctx, email, name, subject, body); err != nil {
		logger.Errorf("Failed to queue booking notification for %s: %v", b.Reference, err)
	}

	s.publishEvent(ctx, "booking.created", b)
}

// BookingStatusChanged implements booking.Notifier.
func (s *Service) BookingStatusChanged(ctx context.Context, b *booking.Booking, from booking.Status, email, name string) {
	var subject, detail string
	switch b.Status {
	case booking.StatusConfirmed:
		subject = "Booking Confirmed - " + b.SportName
		detail = "Your booking is confirmed. See you on the court!"
	case booking.StatusRejected:
		subject = "Booking Rejected - " + b.SportName
		detail = "Unfortunately the facility owner rejected your booking."
	case booking.StatusCancelled:
		subject = "Booking Cancelled - " + b.SportName
		detail = "Your booking has been cancelled."
	default:
		subject = "Booking Updated - " + b.SportName
		detail = fmt.Sprintf("Your booking status changed from %s to %s.", from, b.Status)
	}

	body := fmt.Sprintf(`Hi %s,

%s

Reference: %s
Date: %s
Time: %02d:00 - %02d:00

- QuickCourt Team`, name, detail, b.Reference, b.Date.Format(booking.DateFormat),
		b.StartHour, b.EndHour())

	if err := s.Send(ctx, email, name, subject, body); err != nil {
		logger.Errorf("Failed to queue booking notification for %s: %v", b.Reference, err)
	}

	s.publishEvent(ctx, "booking."+string(b.Status), b)
}

func (s *Service) publishEvent(ctx context.Context, event string, b *booking.Booking) {
	payload, err := json.Marshal(BookingEvent{
		Event:      event,
		Reference:  b.Reference,
		BookingID:  b.ID,
		FacilityID: b.FacilityID,
		CourtID:    b.CourtID,
		Date:       b.Date.Format(booking.DateFormat),
		StartHour:  b.StartHour,
		Duration:   b.Duration,
		Status:     string(b.Status),
		At:         time.Now(),
	})
	if err != nil {
		return
	}

	if err := s.redis.Publish(ctx, eventsChannel, string(payload)).Err(); err != nil {
		logger.Errorf("Failed to publish booking event %s: %v", event, err)
	}
}
