package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/catalog"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// ReminderStore lists reservations due a reminder and records that one
// was sent.  Implemented by repository.ReservationRepo.
type ReminderStore interface {
	ListCheckInReminderDue(ctx context.Context, onDate time.Time) ([]model.Reservation, error)
	ListCheckOutReminderDue(ctx context.Context, onDate time.Time) ([]model.Reservation, error)
	MarkCheckInReminderSent(ctx context.Context, id uint64) error
	MarkCheckOutReminderSent(ctx context.Context, id uint64) error
}

// ReminderService periodically sweeps for reservations arriving or
// departing the next day and emits one reminder event per reservation.
// The sent flag is only set after a successful publish so a failed
// reminder is retried on the next sweep.
type ReminderService struct {
	reservations ReminderStore
	catalog      catalog.Client
	events       EventPublisher
}

// NewReminderService constructs a ReminderService.
func NewReminderService(reservations ReminderStore, cat catalog.Client, events EventPublisher) *ReminderService {
	return &ReminderService{reservations: reservations, catalog: cat, events: events}
}

// Run sweeps on every tick of interval until ctx is cancelled.
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep sends reminders for tomorrow's arrivals and departures.  Errors
// are logged per reservation; one failure never blocks the rest of the
// batch.
func (s *ReminderService) Sweep(ctx context.Context) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)

	due, err := s.reservations.ListCheckInReminderDue(ctx, tomorrow)
	if err != nil {
		log.Printf("reminder: listing check-in reminders: %v", err)
	} else {
		for i := range due {
			s.send(ctx, &due[i], queue.EventCheckInReminder, queue.KeyCheckInReminder, s.reservations.MarkCheckInReminderSent)
		}
	}

	due, err = s.reservations.ListCheckOutReminderDue(ctx, tomorrow)
	if err != nil {
		log.Printf("reminder: listing check-out reminders: %v", err)
		return
	}
	for i := range due {
		s.send(ctx, &due[i], queue.EventCheckOutReminder, queue.KeyCheckOutReminder, s.reservations.MarkCheckOutReminderSent)
	}
}

func (s *ReminderService) send(ctx context.Context, res *model.Reservation, eventType, routingKey string, mark func(context.Context, uint64) error) {
	ev := queue.BookingEvent{
		EventType:    eventType,
		BookingID:    res.ID,
		GuestEmail:   res.GuestEmail,
		GuestName:    res.GuestName,
		CheckInDate:  res.CheckInDate.Format("2006-01-02"),
		CheckOutDate: res.CheckOutDate.Format("2006-01-02"),
		EventTime:    time.Now().UTC(),
	}
	if hotel, err := s.catalog.GetHotel(ctx, res.HotelID); err == nil {
		ev.HotelName = hotel.Name
	}
	if cat, err := s.catalog.GetCategory(ctx, res.CategoryID); err == nil {
		ev.RoomCategory = cat.Name
	}
	if err := s.events.Publish(ctx, routingKey, ev); err != nil {
		log.Printf("reminder: publish %s for booking %d failed: %v", eventType, res.ID, err)
		return
	}
	if err := mark(ctx, res.ID); err != nil {
		log.Printf("reminder: marking booking %d sent: %v", res.ID, err)
	}
}
