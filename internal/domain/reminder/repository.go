package reminder

import (
	"context"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type ReminderRepository interface {
	// ListCandidates returns every reminder due on today (and certificate expiries due tomorrow).
	ListCandidates(ctx context.Context, today, tomorrow time.Time) ([]Candidate, error)

	// Claim inserts the ledger row. ok is false when (record, kind, due date) was already dispatched.
	Claim(ctx context.Context, d Dispatch) (claimed Dispatch, ok bool, err error)

	AttachOutbox(ctx context.Context, dispatchID, outboxID string) error
	List(ctx context.Context, params pagination.Params) ([]Dispatch, int64, error)
}
