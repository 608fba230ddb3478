package reminder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/postgresql"
)

type ReminderServiceImpl struct {
	reminder.ReminderRepository
	txManager     postgresql.TxManager
	eventService  event.EventService
	outboxService outbox.OutboxService
	filters       reminder.Filters
	loc           *time.Location
	now           func() time.Time

	running sync.Mutex
}

func NewReminderService(
	reminderRepo reminder.ReminderRepository,
	txManager postgresql.TxManager,
	eventService event.EventService,
	outboxService outbox.OutboxService,
	filters reminder.Filters,
	loc *time.Location,
) reminder.ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderServiceImpl{
		ReminderRepository: reminderRepo,
		txManager:          txManager,
		eventService:       eventService,
		outboxService:      outboxService,
		filters:            filters,
		loc:                loc,
		now:                time.Now,
	}
}

// RunDaily implements reminder.ReminderService.
func (s *ReminderServiceImpl) RunDaily(ctx context.Context) (reminder.RunResult, error) {
	if !s.running.TryLock() {
		return reminder.RunResult{}, reminder.ErrRunInProgress
	}
	defer s.running.Unlock()

	today := utils.Today(s.now(), s.loc)
	tomorrow := utils.AddDays(today, 1)
	result := reminder.RunResult{Date: utils.FormatDate(today)}

	candidates, err := s.ReminderRepository.ListCandidates(ctx, today, tomorrow)
	if err != nil {
		return result, err
	}
	result.Candidates = len(candidates)

	for _, c := range candidates {
		if !c.Employee.HasPhone() || !s.filters.Matches(c.Employee) {
			result.Skipped++
			continue
		}

		enqueued, err := s.dispatch(ctx, c)
		switch {
		case err != nil:
			result.Failed++
			slog.Error("Failed to dispatch reminder",
				"record_id", c.RecordID, "kind", c.Kind, "due_date", utils.FormatDate(c.DueDate), "error", err)
		case enqueued:
			result.Enqueued++
		default:
			result.Duplicates++
		}
	}

	slog.Info("Daily reminders processed",
		"date", result.Date,
		"candidates", result.Candidates,
		"enqueued", result.Enqueued,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

// dispatch claims the ledger row and, only when it is new, records the event and queues the message.
func (s *ReminderServiceImpl) dispatch(ctx context.Context, c reminder.Candidate) (bool, error) {
	var (
		claimed  bool
		recorded event.EmployeeEvent
	)
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		d, ok, err := s.ReminderRepository.Claim(ctx, reminder.Dispatch{
			RecordType: c.RecordType,
			RecordID:   c.RecordID,
			Kind:       c.Kind,
			DueDate:    c.DueDate,
			EmployeeID: c.Employee.ID,
		})
		if err != nil || !ok {
			return err
		}
		claimed = true

		message := c.Message()
		recorded, err = s.eventService.Record(ctx, event.NewEvent{
			EmployeeID: c.Employee.ID,
			Type:       event.TypeAutoWhatsAppReminder,
			Message:    message,
			Changes:    []event.Change{{Field: c.ChangeField(), From: false, To: true}},
		})
		if err != nil {
			return err
		}

		msg, err := s.outboxService.Enqueue(ctx, outbox.NewMessage{
			Recipient: c.Employee.Telefono,
			Body:      message,
			Reference: c.Reference(),
		})
		if err != nil {
			return err
		}
		return s.ReminderRepository.AttachOutbox(ctx, d.ID, msg.ID)
	})
	if err != nil {
		return false, err
	}
	if claimed {
		s.eventService.Publish(recorded)
	}
	return claimed, nil
}

// ListDispatches implements reminder.ReminderService.
func (s *ReminderServiceImpl) ListDispatches(ctx context.Context, params pagination.Params) (pagination.Page[reminder.DispatchResponse], error) {
	rows, total, err := s.ReminderRepository.List(ctx, params)
	if err != nil {
		return pagination.Page[reminder.DispatchResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(rows, total, params), reminder.ToResponse), nil
}
