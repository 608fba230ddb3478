package legacy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/admin"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/legacy"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/mongodb"
)

// OpenFunc connects to the legacy store for one import run.
type OpenFunc func(ctx context.Context) (legacy.Source, error)

// MongoOpener returns nil when no legacy URI is configured.
func MongoOpener(cfg config.LegacyConfig) OpenFunc {
	if cfg.MongoURI == "" {
		return nil
	}
	return func(ctx context.Context) (legacy.Source, error) {
		return mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	}
}

type ImporterImpl struct {
	open    OpenFunc
	sink    legacy.Sink
	running sync.Mutex
}

func NewImporter(open OpenFunc, sink legacy.Sink) legacy.Importer {
	return &ImporterImpl{open: open, sink: sink}
}

// Import implements legacy.Importer.
func (i *ImporterImpl) Import(ctx context.Context) (legacy.Report, error) {
	if i.open == nil {
		return nil, admin.ErrLegacyNotConfigured
	}
	if !i.running.TryLock() {
		return nil, admin.ErrMigrationInProgress
	}
	defer i.running.Unlock()

	src, err := i.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := src.Close(context.Background()); err != nil {
			slog.Warn("Failed to close legacy source", "error", err)
		}
	}()

	report := legacy.Report{}
	for _, collection := range legacy.Collections {
		m, ok := mappers[collection]
		if !ok {
			return report, fmt.Errorf("no mapper for legacy collection %s", collection)
		}

		cr, err := i.importCollection(ctx, src, collection, m)
		report[collection] = cr
		if err != nil {
			return report, err
		}

		slog.Info("Legacy collection imported",
			"collection", collection,
			"src_count", cr.SrcCount,
			"inserted", cr.Inserted,
			"skipped", cr.Skipped,
			"failed", cr.Failed,
		)
	}
	return report, nil
}

func (i *ImporterImpl) importCollection(ctx context.Context, src legacy.Source, collection string, m mapper) (legacy.CollectionReport, error) {
	var cr legacy.CollectionReport

	count, err := src.Count(ctx, collection)
	if err != nil {
		return cr, err
	}
	cr.SrcCount = count

	err = src.Each(ctx, collection, func(doc legacy.Document) error {
		row, err := m.build(doc)
		if err != nil {
			cr.Failed++
			slog.Warn("Skipping legacy document", "collection", collection, "id", fmt.Sprint(doc["_id"]), "error", err)
			return nil
		}

		inserted, err := i.sink.Insert(ctx, m.table, row)
		switch {
		case err != nil:
			cr.Failed++
			slog.Warn("Failed to insert legacy document", "collection", collection, "id", fmt.Sprint(doc["_id"]), "error", err)
		case inserted:
			cr.Inserted++
		default:
			cr.Skipped++
		}
		return nil
	})
	return cr, err
}
