package services

import (
	"context"
	"fmt"

	"dinnermatch_server/models"
	"dinnermatch_server/utils"
)

// QuizStore translates between QuizMatch values and bitable rows
type QuizStore struct {
	locator recordLocator
}

// NewQuizStore creates a store over tableID; index may be nil
func NewQuizStore(bitable *BitableService, tableID string, index DateIndex) *QuizStore {
	return &QuizStore{locator: recordLocator{
		Bitable: bitable,
		TableID: tableID,
		Kind:    models.KindQuizMatch,
		Index:   index,
	}}
}

// FetchToday returns the quiz record for date, or nil if none exists
func (qs *QuizStore) FetchToday(ctx context.Context, date string) (*models.QuizMatch, error) {
	record, err := qs.locator.find(ctx, date)
	if err != nil || record == nil {
		return nil, err
	}
	return decodeQuizMatch(record, date)
}

// CreateToday inserts a quiz record. It never checks for an existing one.
func (qs *QuizStore) CreateToday(ctx context.Context, match *models.QuizMatch, createdAtMillis int64) (*models.QuizMatch, error) {
	fields, err := encodeQuizState(match)
	if err != nil {
		return nil, err
	}
	creator, err := utils.EncodeJSONField(match.Creator)
	if err != nil {
		return nil, fmt.Errorf("failed to encode creator: %w", err)
	}
	questions, err := utils.EncodeJSONField(match.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	fields[models.FieldDate] = match.Date
	fields[models.FieldCreator] = creator
	fields[models.FieldQuestions] = questions
	fields[models.FieldCreatedAt] = createdAtMillis

	record, err := qs.locator.Bitable.CreateRecord(ctx, qs.locator.TableID, fields)
	if err != nil {
		return nil, err
	}
	qs.locator.rememberCreated(ctx, match.Date, record.RecordID)

	created := *match
	created.ID = record.RecordID
	return &created, nil
}

// UpdateToday writes status, match result and failed attempts back
func (qs *QuizStore) UpdateToday(ctx context.Context, match *models.QuizMatch) error {
	fields, err := encodeQuizState(match)
	if err != nil {
		return err
	}
	_, err = qs.locator.Bitable.UpdateRecord(ctx, qs.locator.TableID, match.ID, fields)
	return err
}

func decodeQuizMatch(record *models.Record, date string) (*models.QuizMatch, error) {
	match := &models.QuizMatch{
		ID:             record.RecordID,
		Date:           date,
		Questions:      []interface{}{},
		Status:         utils.ExtractString(record.Fields, models.FieldStatus),
		Matched:        []models.QuizParticipant{},
		FailedAttempts: []models.QuizParticipant{},
	}

	decode := []struct {
		field string
		out   interface{}
	}{
		{models.FieldCreator, &match.Creator},
		{models.FieldQuestions, &match.Questions},
		{models.FieldMatched, &match.Matched},
		{models.FieldFailedAttempts, &match.FailedAttempts},
	}
	for _, d := range decode {
		if err := utils.DecodeJSONField(record.Fields, d.field, d.out); err != nil {
			return nil, asUpstream(fmt.Errorf("malformed %s in record '%s': %w", d.field, record.RecordID, err))
		}
	}

	if match.Questions == nil {
		match.Questions = []interface{}{}
	}
	if match.Matched == nil {
		match.Matched = []models.QuizParticipant{}
	}
	if match.FailedAttempts == nil {
		match.FailedAttempts = []models.QuizParticipant{}
	}
	return match, nil
}

func encodeQuizState(match *models.QuizMatch) (map[string]interface{}, error) {
	matched, err := utils.EncodeJSONField(nonNilQuizList(match.Matched))
	if err != nil {
		return nil, fmt.Errorf("failed to encode match result: %w", err)
	}
	failed, err := utils.EncodeJSONField(nonNilQuizList(match.FailedAttempts))
	if err != nil {
		return nil, fmt.Errorf("failed to encode failed attempts: %w", err)
	}
	return map[string]interface{}{
		models.FieldStatus:         match.Status,
		models.FieldMatched:        matched,
		models.FieldFailedAttempts: failed,
	}, nil
}

func nonNilQuizList(list []models.QuizParticipant) []models.QuizParticipant {
	if list == nil {
		return []models.QuizParticipant{}
	}
	return list
}
