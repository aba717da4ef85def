package services

import (
	"context"
)

// DateIndex remembers which bitable record holds a given day's match so the
// stores can skip the full-table scan. A miss returns an empty id and no error.
//
// Remember overwrites any entry and is used to repair the index after a scan.
// RememberIfAbsent keeps an existing entry so that a duplicate record created
// later for the same day never displaces the first one.
type DateIndex interface {
	Lookup(ctx context.Context, kind, date string) (string, error)
	Remember(ctx context.Context, kind, date, recordID string) error
	RememberIfAbsent(ctx context.Context, kind, date, recordID string) error
}

func indexKey(kind, date string) string {
	return kind + "#" + date
}
