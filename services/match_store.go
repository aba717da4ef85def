package services

import (
	"context"
	"fmt"

	"dinnermatch_server/models"
	"dinnermatch_server/utils"
)

// MatchStore translates between open-join DailyMatch values and bitable rows
type MatchStore struct {
	locator recordLocator
}

// NewMatchStore creates a store over tableID; index may be nil
func NewMatchStore(bitable *BitableService, tableID string, index DateIndex) *MatchStore {
	return &MatchStore{locator: recordLocator{
		Bitable: bitable,
		TableID: tableID,
		Kind:    models.KindDailyMatch,
		Index:   index,
	}}
}

// FetchToday returns the record for date, or nil if none exists
func (ms *MatchStore) FetchToday(ctx context.Context, date string) (*models.DailyMatch, error) {
	record, err := ms.locator.find(ctx, date)
	if err != nil || record == nil {
		return nil, err
	}
	return decodeDailyMatch(record, date)
}

// CreateToday inserts a new record for date with the given state
func (ms *MatchStore) CreateToday(ctx context.Context, match *models.DailyMatch, createdAtMillis int64) (*models.DailyMatch, error) {
	fields, err := encodeDailyMatch(match)
	if err != nil {
		return nil, err
	}
	fields[models.FieldDate] = match.Date
	fields[models.FieldCreatedAt] = createdAtMillis

	record, err := ms.locator.Bitable.CreateRecord(ctx, ms.locator.TableID, fields)
	if err != nil {
		return nil, err
	}
	ms.locator.rememberCreated(ctx, match.Date, record.RecordID)

	created := *match
	created.ID = record.RecordID
	return &created, nil
}

// UpdateToday writes the mutable fields of match back to its record
func (ms *MatchStore) UpdateToday(ctx context.Context, match *models.DailyMatch) error {
	fields, err := encodeDailyMatch(match)
	if err != nil {
		return err
	}
	_, err = ms.locator.Bitable.UpdateRecord(ctx, ms.locator.TableID, match.ID, fields)
	return err
}

func decodeDailyMatch(record *models.Record, date string) (*models.DailyMatch, error) {
	match := &models.DailyMatch{
		ID:           record.RecordID,
		Date:         date,
		Participants: []models.Participant{},
		Status:       utils.ExtractString(record.Fields, models.FieldStatus),
		Matched:      []models.Participant{},
		Topic:        utils.ExtractString(record.Fields, models.FieldTopic),
	}
	if err := utils.DecodeJSONField(record.Fields, models.FieldParticipants, &match.Participants); err != nil {
		return nil, asUpstream(fmt.Errorf("malformed participants in record '%s': %w", record.RecordID, err))
	}
	if err := utils.DecodeJSONField(record.Fields, models.FieldMatched, &match.Matched); err != nil {
		return nil, asUpstream(fmt.Errorf("malformed match result in record '%s': %w", record.RecordID, err))
	}
	if match.Participants == nil {
		match.Participants = []models.Participant{}
	}
	if match.Matched == nil {
		match.Matched = []models.Participant{}
	}
	return match, nil
}

// encodeDailyMatch builds the mutable field set; an empty match result is stored as ""
func encodeDailyMatch(match *models.DailyMatch) (map[string]interface{}, error) {
	participants, err := utils.EncodeJSONField(match.Participants)
	if err != nil {
		return nil, fmt.Errorf("failed to encode participants: %w", err)
	}
	matched := ""
	if len(match.Matched) > 0 {
		if matched, err = utils.EncodeJSONField(match.Matched); err != nil {
			return nil, fmt.Errorf("failed to encode match result: %w", err)
		}
	}
	return map[string]interface{}{
		models.FieldParticipants: participants,
		models.FieldStatus:       match.Status,
		models.FieldMatched:      matched,
		models.FieldTopic:        match.Topic,
	}, nil
}
