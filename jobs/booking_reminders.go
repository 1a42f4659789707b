package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scienceclub/hallhub/internal/observability"
)

// upcomingBooking is one row of the reminder digest.
type upcomingBooking struct {
	HallName    string
	TeacherName string
	SubjectName string
	StartsAt    time.Time
	EndsAt      time.Time
}

// BookingRemindersJob mails a digest of the bookings starting within the
// next 24 hours to the club administrator.
type BookingRemindersJob struct {
	Pool    *pgxpool.Pool
	Client  *Client
	Logger  *slog.Logger
	Metrics *observability.Metrics
	SendTo  string
	clock   func() time.Time
}

// NewBookingRemindersJob wires dependencies for the reminder handler.
func NewBookingRemindersJob(pool *pgxpool.Pool, client *Client, logger *slog.Logger, metrics *observability.Metrics, sendTo string) *BookingRemindersJob {
	return &BookingRemindersJob{
		Pool:    pool,
		Client:  client,
		Logger:  logger,
		Metrics: metrics,
		SendTo:  sendTo,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes booking reminder tasks.
func (j *BookingRemindersJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("booking reminders: handler not configured")
	}
	logger := j.logger()
	logger.Info("starting booking reminder scan")

	now := j.now()
	upcoming, err := j.fetchUpcoming(ctx, now, now.Add(24*time.Hour))
	if err != nil {
		j.observe("failure")
		logger.Error("load upcoming bookings", slog.Any("error", err))
		return err
	}
	if len(upcoming) == 0 {
		j.observe("success")
		logger.Info("no upcoming bookings, skipping digest")
		return nil
	}

	var body strings.Builder
	body.WriteString("حجوزات اليوم القادم:\n\n")
	for _, b := range upcoming {
		fmt.Fprintf(&body, "- %s | %s | %s | %s - %s\n",
			b.HallName, b.TeacherName, b.SubjectName,
			b.StartsAt.Format("2006-01-02 15:04"), b.EndsAt.Format("15:04"))
	}

	if j.Client != nil {
		if _, err := j.Client.EnqueueSendEmail(ctx, SendEmailPayload{
			To:      j.SendTo,
			Subject: fmt.Sprintf("تذكير الحجوزات %s", now.Format("2006-01-02")),
			Body:    body.String(),
		}); err != nil {
			j.observe("failure")
			logger.Error("enqueue reminder email", slog.Any("error", err))
			return err
		}
	}

	j.observe("success")
	logger.Info("completed booking reminder scan", slog.Int("bookings", len(upcoming)))
	return nil
}

func (j *BookingRemindersJob) fetchUpcoming(ctx context.Context, from, to time.Time) ([]upcomingBooking, error) {
	rows, err := j.Pool.Query(ctx, `
		SELECT h.name, t.name, s.name, b.starts_at, b.ends_at
		FROM bookings b
		JOIN halls h ON h.id = b.hall_id
		JOIN teachers t ON t.id = b.teacher_id
		JOIN subjects s ON s.id = b.subject_id
		WHERE b.starts_at >= $1 AND b.starts_at < $2
		ORDER BY b.starts_at`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]upcomingBooking, 0)
	for rows.Next() {
		var b upcomingBooking
		if err := rows.Scan(&b.HallName, &b.TeacherName, &b.SubjectName, &b.StartsAt, &b.EndsAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (j *BookingRemindersJob) observe(outcome string) {
	if j.Metrics != nil {
		j.Metrics.ObserveJob(TaskTypeBookingReminders, outcome)
	}
}

func (j *BookingRemindersJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeBookingReminders))
	}
	return slog.Default().With(slog.String("job", TaskTypeBookingReminders))
}

func (j *BookingRemindersJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
