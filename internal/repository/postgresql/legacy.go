package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/legacy"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
)

type legacySinkImpl struct {
	db *database.DB
}

func NewLegacySink(db *database.DB) legacy.Sink {
	return &legacySinkImpl{db: db}
}

// Insert implements legacy.Sink. Rows whose key already exists are left untouched.
func (s *legacySinkImpl) Insert(ctx context.Context, table string, row legacy.Row) (bool, error) {
	if len(row.Columns) == 0 || len(row.Columns) != len(row.Values) {
		return false, fmt.Errorf("invalid row for %s: %d columns, %d values", table, len(row.Columns), len(row.Values))
	}

	q := GetQuerier(ctx, s.db)

	columns := make([]string, len(row.Columns))
	placeholders := make([]string, len(row.Columns))
	for i, c := range row.Columns {
		columns[i] = pgx.Identifier{c}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		pgx.Identifier{table}.Sanitize(),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	tag, err := q.Exec(ctx, query, row.Values...)
	if err != nil {
		return false, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return tag.RowsAffected() == 1, nil
}
