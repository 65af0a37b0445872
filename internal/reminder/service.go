package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Obed704/church-portal/internal/db"
	"github.com/Obed704/church-portal/internal/model"
	"github.com/Obed704/church-portal/internal/notify"
	"github.com/Obed704/church-portal/internal/redis"
)

const (
	DefaultLead  = 24 * time.Hour
	DefaultGrace = time.Hour
	RetryDelay   = 5 * time.Minute
	MaxAttempts  = 3
	lockTTL      = time.Hour
)

var (
	ErrInvalidTarget    = errors.New("reminders can target events or studies")
	ErrTargetNotFound   = errors.New("reminder target not found")
	ErrEventStarted     = errors.New("event has already started")
	ErrScheduleRequired = errors.New("remind_at or cron is required for this target")
	ErrInPast           = errors.New("remind_at must be in the future")
	ErrInvalidChannel   = errors.New("channels must be email, sms or push")
	ErrPhoneRequired    = errors.New("sms reminders need a phone number on your profile")
	ErrAlreadyScheduled = errors.New("a reminder for this item is already scheduled")
	ErrNotFound         = errors.New("reminder not found")
	ErrNotScheduled     = errors.New("reminder is no longer scheduled")
)

// Store is the slice of db.Store reminders need.
type Store interface {
	db.ReminderStore
	GetUserByID(id int) (*model.User, error)
	GetEvent(id int) (model.Event, error)
	GetStudy(id int) (model.Study, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, channels []string, msg notify.Message) (int, error)
}

type Options struct {
	Lead  time.Duration
	Grace time.Duration
}

// Service owns reminder creation, startup recovery and delivery.
type Service struct {
	store      Store
	dispatcher Dispatcher
	locker     redis.Locker
	lead       time.Duration
	grace      time.Duration
	now        func() time.Time

	queue    queue
	inflight sync.WaitGroup
}

func NewService(store Store, dispatcher Dispatcher, locker redis.Locker, opts Options) *Service {
	if opts.Lead <= 0 {
		opts.Lead = DefaultLead
	}
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	if locker == nil {
		locker = redis.NewLocker(nil)
	}
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		locker:     locker,
		lead:       opts.Lead,
		grace:      opts.Grace,
		now:        time.Now,
		queue:      nopQueue{},
	}
}

type nopQueue struct{}

func (nopQueue) Add(int, time.Time) {}
func (nopQueue) Remove(int)         {}

// Start launches the scheduler and loads reminders persisted before the
// last shutdown. Deliveries stop when ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.queue = NewScheduler(ctx, func(id int) {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			if err := s.Deliver(ctx, id); err != nil {
				log.Error().Err(err).Int("reminder_id", id).Msg("Reminder delivery failed")
			}
		}()
	})
	scheduled, missed, err := s.LoadPending()
	if err != nil {
		return err
	}
	log.Info().Int("scheduled", scheduled).Int("missed", missed).Msg("Reminder scheduler started")
	return nil
}

// Wait blocks until in-flight deliveries finish.
func (s *Service) Wait() {
	s.inflight.Wait()
}

type CreateRequest struct {
	UserID     int
	TargetType string
	TargetID   int
	RemindAt   *time.Time
	Cron       *string
	Channels   []string
	Note       *string
}

// Create validates req, works out when the reminder fires and queues it.
func (s *Service) Create(ctx context.Context, req CreateRequest) (model.Reminder, error) {
	now := s.now()

	user, err := s.store.GetUserByID(req.UserID)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("load user: %w", err)
	}
	channels, err := normalizeChannels(req.Channels, user)
	if err != nil {
		return model.Reminder{}, err
	}

	var cron *string
	if req.Cron != nil && *req.Cron != "" {
		if err := ValidateCron(*req.Cron); err != nil {
			return model.Reminder{}, err
		}
		cron = req.Cron
	}
	if req.RemindAt != nil && !req.RemindAt.After(now) {
		return model.Reminder{}, ErrInPast
	}

	var remindAt time.Time
	switch req.TargetType {
	case model.TargetEvent:
		event, err := s.store.GetEvent(req.TargetID)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, ErrTargetNotFound
		} else if err != nil {
			return model.Reminder{}, err
		}
		if !now.Before(event.StartsAt) {
			return model.Reminder{}, ErrEventStarted
		}
		remindAt = s.eventRemindAt(event, now)
	case model.TargetStudy:
		if _, err := s.store.GetStudy(req.TargetID); errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, ErrTargetNotFound
		} else if err != nil {
			return model.Reminder{}, err
		}
		if req.RemindAt == nil && cron == nil {
			return model.Reminder{}, ErrScheduleRequired
		}
	default:
		return model.Reminder{}, ErrInvalidTarget
	}

	switch {
	case req.RemindAt != nil:
		remindAt = *req.RemindAt
	case cron != nil:
		if remindAt, err = NextTick(*cron, now); err != nil {
			return model.Reminder{}, err
		}
	}

	r, err := s.store.CreateReminder(model.Reminder{
		UserID:     req.UserID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		RemindAt:   remindAt,
		CronExpr:   cron,
		Explicit:   req.RemindAt != nil || cron != nil,
		Channels:   channels,
		Note:       req.Note,
	})
	if errors.Is(err, db.ErrDuplicate) {
		return model.Reminder{}, ErrAlreadyScheduled
	} else if err != nil {
		return model.Reminder{}, err
	}

	s.queue.Add(r.ID, r.RemindAt)
	log.Info().Int("reminder_id", r.ID).Int("user_id", r.UserID).Time("remind_at", r.RemindAt).Msg("Reminder scheduled")
	return r, nil
}

// eventRemindAt is starts_at minus the lead time, or now when that has passed.
func (s *Service) eventRemindAt(event model.Event, now time.Time) time.Time {
	at := event.StartsAt.Add(-s.lead)
	if at.Before(now) {
		return now
	}
	return at
}

func normalizeChannels(in []string, user *model.User) ([]string, error) {
	if len(in) == 0 {
		return []string{model.ChannelPush}, nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, ch := range in {
		if !notify.ValidChannel(ch) {
			return nil, ErrInvalidChannel
		}
		if seen[ch] {
			continue
		}
		if ch == model.ChannelSMS && (user.Phone == nil || *user.Phone == "") {
			return nil, ErrPhoneRequired
		}
		seen[ch] = true
		out = append(out, ch)
	}
	return out, nil
}

// Cancel stops a scheduled reminder owned by userID.
func (s *Service) Cancel(ctx context.Context, userID, id int) error {
	r, err := s.store.GetReminder(id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && r.UserID != userID) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if r.State != model.ReminderScheduled {
		return ErrNotScheduled
	}
	if err := s.store.MarkReminder(id, model.ReminderCancelled, nil); errors.Is(err, sql.ErrNoRows) {
		return ErrNotScheduled
	} else if err != nil {
		return err
	}
	s.queue.Remove(id)
	return nil
}

// LoadPending queues scheduled reminders found at startup. Reminders due
// within the grace window fire right away; older one-shot reminders are
// marked missed and older recurring ones move to their next tick.
func (s *Service) LoadPending() (scheduled, missed int, err error) {
	pending, err := s.store.ListScheduledReminders()
	if err != nil {
		return 0, 0, fmt.Errorf("list scheduled reminders: %w", err)
	}
	now := s.now()
	for _, r := range pending {
		if !r.RemindAt.Before(now.Add(-s.grace)) {
			s.queue.Add(r.ID, r.RemindAt)
			scheduled++
			continue
		}
		if r.Recurring() {
			next, err := NextTick(*r.CronExpr, now)
			if err == nil {
				if err := s.store.RescheduleReminder(r.ID, next, 0); err != nil {
					log.Error().Err(err).Int("reminder_id", r.ID).Msg("Failed to advance recurring reminder")
					continue
				}
				s.queue.Add(r.ID, next)
				scheduled++
				continue
			}
		}
		if err := s.store.MarkReminder(r.ID, model.ReminderMissed, nil); err != nil {
			log.Error().Err(err).Int("reminder_id", r.ID).Msg("Failed to mark reminder missed")
			continue
		}
		log.Warn().Int("reminder_id", r.ID).Time("remind_at", r.RemindAt).Msg("Reminder missed while offline")
		missed++
	}
	return scheduled, missed, nil
}

func lockKey(r model.Reminder) string {
	return "reminder:" + strconv.Itoa(r.ID) + ":" + strconv.FormatInt(r.RemindAt.Unix(), 10)
}

// Deliver sends reminder id if it is still scheduled and due. Load failures
// requeue the reminder instead of dropping it.
func (s *Service) Deliver(ctx context.Context, id int) error {
	r, err := s.store.GetReminder(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	} else if err != nil {
		retryAt := s.now().Add(RetryDelay)
		s.queue.Add(id, retryAt)
		return fmt.Errorf("load reminder %d, retrying at %s: %w", id, retryAt.Format(time.RFC3339), err)
	}
	if r.State != model.ReminderScheduled {
		return nil
	}
	now := s.now()
	if r.RemindAt.After(now.Add(time.Second)) {
		// moved since it was queued
		s.queue.Add(r.ID, r.RemindAt)
		return nil
	}

	subj, err := s.subject(r)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info().Int("reminder_id", id).Msg("Reminder target is gone, cancelling")
		return s.store.MarkReminder(id, model.ReminderCancelled, nil)
	} else if err != nil {
		return s.retry(r, now, fmt.Errorf("load target: %w", err))
	}
	user, err := s.store.GetUserByID(r.UserID)
	if err != nil {
		return s.retry(r, now, fmt.Errorf("load user %d: %w", r.UserID, err))
	}
	msg, err := notify.Render(r, *user, subj, now)
	if err != nil {
		return s.retry(r, now, fmt.Errorf("render: %w", err))
	}

	ok, err := s.locker.Acquire(ctx, lockKey(r), lockTTL)
	if err != nil {
		log.Warn().Err(err).Int("reminder_id", id).Msg("Reminder lock unavailable, delivering anyway")
	} else if !ok {
		log.Debug().Int("reminder_id", id).Msg("Reminder claimed by another instance")
		return nil
	}

	sent, dispatchErr := s.dispatcher.Dispatch(ctx, r.Channels, msg)
	if sent == 0 {
		return s.retry(r, now, dispatchErr)
	}

	if r.Recurring() {
		return s.advance(r, now)
	}
	if err := s.store.MarkReminder(id, model.ReminderDelivered, &now); err != nil {
		return err
	}
	log.Info().Int("reminder_id", id).Int("channels", sent).Msg("Reminder delivered")
	return nil
}

func (s *Service) subject(r model.Reminder) (notify.Subject, error) {
	switch r.TargetType {
	case model.TargetEvent:
		e, err := s.store.GetEvent(r.TargetID)
		if err != nil {
			return notify.Subject{}, err
		}
		return notify.Subject{Title: e.Title, StartsAt: &e.StartsAt, Location: e.Location}, nil
	case model.TargetStudy:
		st, err := s.store.GetStudy(r.TargetID)
		if err != nil {
			return notify.Subject{}, err
		}
		return notify.Subject{Title: st.Title}, nil
	}
	return notify.Subject{}, ErrInvalidTarget
}

// retry requeues a reminder none of whose channels succeeded.
func (s *Service) retry(r model.Reminder, now time.Time, cause error) error {
	attempts := r.Attempts + 1
	if attempts >= MaxAttempts {
		if r.Recurring() {
			log.Warn().Err(cause).Int("reminder_id", r.ID).Msg("Recurring reminder occurrence dropped")
			return s.advance(r, now)
		}
		log.Warn().Err(cause).Int("reminder_id", r.ID).Int("attempts", attempts).Msg("Reminder gave up")
		return s.store.MarkReminder(r.ID, model.ReminderMissed, nil)
	}
	next := now.Add(RetryDelay)
	// queued even when the store is unreachable so the next attempt still happens
	s.queue.Add(r.ID, next)
	if err := s.store.RescheduleReminder(r.ID, next, attempts); err != nil {
		return fmt.Errorf("reschedule reminder %d: %w", r.ID, err)
	}
	log.Warn().Err(cause).Int("reminder_id", r.ID).Int("attempts", attempts).Time("retry_at", next).Msg("Reminder delivery retry scheduled")
	return nil
}

func (s *Service) advance(r model.Reminder, now time.Time) error {
	next, err := NextTick(*r.CronExpr, now)
	if err != nil {
		return fmt.Errorf("next tick for reminder %d: %w", r.ID, err)
	}
	if err := s.store.RescheduleReminder(r.ID, next, 0); err != nil {
		return err
	}
	s.queue.Add(r.ID, next)
	return nil
}

// RescheduleForEvent recomputes derived reminder times after an event moves.
// Reminders with a user-chosen time or cron keep their schedule.
func (s *Service) RescheduleForEvent(ctx context.Context, event model.Event) error {
	reminders, err := s.store.ListEventReminders(event.ID)
	if err != nil {
		return err
	}
	now := s.now()
	for _, r := range reminders {
		if r.Explicit {
			continue
		}
		if !now.Before(event.StartsAt) {
			if err := s.store.MarkReminder(r.ID, model.ReminderMissed, nil); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return err
			}
			s.queue.Remove(r.ID)
			continue
		}
		at := s.eventRemindAt(event, now)
		if err := s.store.RescheduleReminder(r.ID, at, 0); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		s.queue.Add(r.ID, at)
	}
	return nil
}

// CancelForEvent cancels every scheduled reminder on an event.
func (s *Service) CancelForEvent(ctx context.Context, eventID int) error {
	reminders, err := s.store.ListEventReminders(eventID)
	if err != nil {
		return err
	}
	for _, r := range reminders {
		if err := s.store.MarkReminder(r.ID, model.ReminderCancelled, nil); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		s.queue.Remove(r.ID)
	}
	return nil
}
