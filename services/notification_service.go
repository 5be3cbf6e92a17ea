package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/infinity-hospitality/event-system/brackets"
	"github.com/infinity-hospitality/event-system/models"
	"github.com/infinity-hospitality/event-system/repositories"
	"golang.org/x/sync/errgroup"
)

// Broadcaster pushes a message to every websocket client in a room.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// NotificationDispatcher delivers events after the fact. Publish never
// blocks on delivery and never reports delivery errors to the caller.
type NotificationDispatcher interface {
	Publish(ev Event)
	// Wait blocks until every published event has been handled.
	Wait()
}

type NotifierConfig struct {
	From       string
	AdminEmail string
	Timeout    time.Duration
}

type notificationDispatcher struct {
	cfg         NotifierConfig
	mailer      Mailer
	userRepo    repositories.UserRepository
	jobRepo     repositories.JobApplicationRepository
	broadcaster Broadcaster
	logger      *slog.Logger
	wg          sync.WaitGroup
}

func NewNotificationDispatcher(
	cfg NotifierConfig,
	mailer Mailer,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobApplicationRepository,
	broadcaster Broadcaster,
	logger *slog.Logger,
) NotificationDispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &notificationDispatcher{
		cfg:         cfg,
		mailer:      mailer,
		userRepo:    userRepo,
		jobRepo:     jobRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (d *notificationDispatcher) Publish(ev Event) {
	if ev == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				d.logger.Error("notification handler panicked",
					slog.String("event", ev.EventName()),
					slog.Any("panic", p))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
		defer cancel()

		if err := d.handle(ctx, ev); err != nil {
			d.logger.Error("failed to deliver notification",
				slog.String("event", ev.EventName()),
				slog.Any("error", err))
		}
	}()
}

func (d *notificationDispatcher) Wait() {
	d.wg.Wait()
}

func (d *notificationDispatcher) handle(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case TournamentChampionDecided:
		d.broadcast(e.TournamentID, e.EventName(), e)
		return d.notifyChampion(ctx, e)
	case FixtureResolved:
		d.broadcast(e.TournamentID, e.EventName(), e)
		return nil
	case BookingStatusChanged:
		return d.notifyBookingOwner(ctx, e)
	case StaffOpportunity:
		return d.notifyStaff(ctx, e)
	case JobApplicationReceived:
		body, err := renderEmail("job_application.html", e.Application)
		if err != nil {
			return err
		}
		return d.send(ctx, "Application received: "+e.Application.Position, body, e.Application.Email)
	case InquiryReceived:
		return d.notifyInquiry(ctx, e)
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}
}

func (d *notificationDispatcher) broadcast(tournamentID int, eventType string, payload interface{}) {
	if d.broadcaster == nil {
		return
	}
	room := brackets.TournamentRoom(strconv.Itoa(tournamentID))
	d.broadcaster.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    eventType,
		Payload: payload,
		RoomID:  room,
	})
}

func (d *notificationDispatcher) notifyChampion(ctx context.Context, e TournamentChampionDecided) error {
	user, err := d.userRepo.GetByID(ctx, e.ChampionUserID)
	if err != nil {
		return fmt.Errorf("failed to load champion user %d: %w", e.ChampionUserID, err)
	}
	body, err := renderEmail("champion.html", e)
	if err != nil {
		return err
	}
	return d.send(ctx, "Congratulations! You won "+e.TournamentName, body, user.Email)
}

func (d *notificationDispatcher) notifyBookingOwner(ctx context.Context, e BookingStatusChanged) error {
	user, err := d.userRepo.GetByID(ctx, e.Booking.UserID)
	if err != nil {
		return fmt.Errorf("failed to load booking owner %d: %w", e.Booking.UserID, err)
	}
	body, err := renderEmail("booking_status.html", struct {
		Username string
		Booking  models.Booking
	}{user.Username, e.Booking})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your booking #%d is %s", e.Booking.ID, e.Booking.Status)
	return d.send(ctx, subject, body, user.Email)
}

func (d *notificationDispatcher) notifyStaff(ctx context.Context, e StaffOpportunity) error {
	applicants, err := d.jobRepo.ListByPositions(ctx, e.Positions)
	if err != nil {
		return fmt.Errorf("failed to list applicants for booking %d: %w", e.Booking.ID, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, applicant := range applicants {
		g.Go(func() error {
			body, err := renderEmail("staff_opportunity.html", struct {
				Applicant models.JobApplication
				Booking   models.Booking
			}{applicant, e.Booking})
			if err != nil {
				return err
			}
			subject := fmt.Sprintf("Staffing request: %s on %s", e.Booking.EventType, e.Booking.EventDate.Format("02 Jan 2006"))
			if err := d.send(gctx, subject, body, applicant.Email); err != nil {
				return fmt.Errorf("applicant %d: %w", applicant.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (d *notificationDispatcher) notifyInquiry(ctx context.Context, e InquiryReceived) error {
	var errs []error
	if d.cfg.AdminEmail != "" {
		body, err := renderEmail("inquiry_admin.html", e.Inquiry)
		if err == nil {
			err = d.send(ctx, "New inquiry: "+e.Inquiry.Subject, body, d.cfg.AdminEmail)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("admin copy: %w", err))
		}
	}
	body, err := renderEmail("inquiry_confirmation.html", e.Inquiry)
	if err == nil {
		err = d.send(ctx, "We received your inquiry", body, e.Inquiry.Email)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("sender confirmation: %w", err))
	}
	return errors.Join(errs...)
}

func (d *notificationDispatcher) send(ctx context.Context, subject, body string, to ...string) error {
	return d.mailer.Send(ctx, Message{
		Subject: subject,
		Body:    body,
		From:    d.cfg.From,
		To:      to,
	})
}
