package legacy

import "context"

// Document is one decoded legacy document keyed by field name.
type Document map[string]interface{}

// Source reads the legacy collections.
type Source interface {
	Count(ctx context.Context, collection string) (int64, error)
	Each(ctx context.Context, collection string, fn func(Document) error) error
	Close(ctx context.Context) error
}

// Row is one relational row; Columns and Values are parallel.
type Row struct {
	Columns []string
	Values  []interface{}
}

// Sink writes imported rows. Insert reports false when the row already existed.
type Sink interface {
	Insert(ctx context.Context, table string, row Row) (bool, error)
}
