package presentismo

import (
	"context"
	"time"
)

type RecipientRepository interface {
	// List returns every recipient, newest first.
	List(ctx context.Context) ([]Recipient, error)
	ListActive(ctx context.Context) ([]Recipient, error)
	GetByID(ctx context.Context, id string) (Recipient, error)
	Create(ctx context.Context, r Recipient) (Recipient, error)
	Update(ctx context.Context, r Recipient) (Recipient, error)
	Delete(ctx context.Context, id string) error
}

type ReportRepository interface {
	// ListLostPresentismo returns employees with an inasistencia marked lost_presentismo dated in [start, end),
	// sorted by apellido, nombre.
	ListLostPresentismo(ctx context.Context, start, end time.Time) ([]LostEmployee, error)
}
