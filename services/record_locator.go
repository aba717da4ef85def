package services

import (
	"context"
	"log/slog"

	"dinnermatch_server/models"
	"dinnermatch_server/utils"
)

// recordLocator finds the row of a table whose date field equals a given day
type recordLocator struct {
	Bitable *BitableService
	TableID string
	Kind    string
	Index   DateIndex
}

// find returns nil when no row carries the date.
// The index is only a shortcut: any index miss or error falls back to the full scan.
func (rl *recordLocator) find(ctx context.Context, date string) (*models.Record, error) {
	if rl.Index != nil {
		if record := rl.findIndexed(ctx, date); record != nil {
			return record, nil
		}
	}

	records, err := rl.Bitable.ListRecords(ctx, rl.TableID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if utils.ExtractString(records[i].Fields, models.FieldDate) == date {
			rl.remember(ctx, date, records[i].RecordID)
			return &records[i], nil
		}
	}
	return nil, nil
}

func (rl *recordLocator) findIndexed(ctx context.Context, date string) *models.Record {
	recordID, err := rl.Index.Lookup(ctx, rl.Kind, date)
	if err != nil {
		slog.Warn("⚠️ date index lookup failed, scanning table", "kind", rl.Kind, "date", date, "error", err)
		return nil
	}
	if recordID == "" {
		return nil
	}

	record, err := rl.Bitable.GetRecord(ctx, rl.TableID, recordID)
	if err != nil {
		slog.Warn("⚠️ indexed record unreadable, scanning table", "kind", rl.Kind, "date", date, "record", recordID, "error", err)
		return nil
	}
	if utils.ExtractString(record.Fields, models.FieldDate) != date {
		slog.Warn("⚠️ stale date index entry", "kind", rl.Kind, "date", date, "record", recordID)
		return nil
	}
	if record.RecordID == "" {
		record.RecordID = recordID
	}
	return record
}

// remember stores the id in the index; failures only cost a later scan
func (rl *recordLocator) remember(ctx context.Context, date, recordID string) {
	if rl.Index == nil || recordID == "" {
		return
	}
	if err := rl.Index.Remember(ctx, rl.Kind, date, recordID); err != nil {
		slog.Warn("⚠️ failed to update date index", "kind", rl.Kind, "date", date, "error", err)
	}
}

// rememberCreated records a freshly created row unless the day already has one
func (rl *recordLocator) rememberCreated(ctx context.Context, date, recordID string) {
	if rl.Index == nil || recordID == "" {
		return
	}
	if err := rl.Index.RememberIfAbsent(ctx, rl.Kind, date, recordID); err != nil {
		slog.Warn("⚠️ failed to add date index entry", "kind", rl.Kind, "date", date, "error", err)
	}
}
