package services

import (
	"context"
	"time"

	"dinnermatch_server/models"
	"dinnermatch_server/utils"
)

// EventService lists, creates and updates dinner events
type EventService struct {
	Bitable *BitableService
	TableID string
	Now     func() time.Time
}

// NewEventService creates the service over tableID
func NewEventService(bitable *BitableService, tableID string) *EventService {
	return &EventService{Bitable: bitable, TableID: tableID, Now: time.Now}
}

// List returns every event in table order
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	records, err := s.Bitable.ListRecords(ctx, s.TableID)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(records))
	for i := range records {
		events = append(events, s.toEvent(&records[i]))
	}
	return events, nil
}

// Create stores a new event with one attendee and the recruiting status
func (s *EventService) Create(ctx context.Context, in models.EventInput) (*models.Event, error) {
	host := in.Host
	if host == "" {
		host = models.DefaultEventHost
	}
	hostAvatar := in.HostAvatar
	if hostAvatar == "" {
		hostAvatar = models.DefaultEventHostAvatar
	}
	questions := in.Questions
	if questions == nil {
		questions = []interface{}{}
	}
	encodedQuestions, err := utils.EncodeJSONField(questions)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		models.FieldEventTitle:         in.Title,
		models.FieldEventDescription:   in.Description,
		models.FieldEventLocation:      in.Location,
		models.FieldEventDistance:      in.Distance,
		models.FieldEventTime:          in.Time,
		models.FieldEventMaxPeople:     in.MaxPeople,
		models.FieldEventCurrentPeople: models.DefaultEventCurrentSize,
		models.FieldEventHost:          host,
		models.FieldEventHostAvatar:    hostAvatar,
		models.FieldEventQuestions:     encodedQuestions,
		models.FieldStatus:             models.EventStatusRecruiting,
		models.FieldCreatedAt:          s.Now().UnixMilli(),
	}

	record, err := s.Bitable.CreateRecord(ctx, s.TableID, fields)
	if err != nil {
		return nil, err
	}
	if record.Fields == nil {
		record.Fields = fields
	}
	event := s.toEvent(record)
	return &event, nil
}

// Update passes fields straight through to the record, e.g. a new attendee count
func (s *EventService) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Event, error) {
	record, err := s.Bitable.UpdateRecord(ctx, s.TableID, id, fields)
	if err != nil {
		return nil, err
	}
	if record.RecordID == "" {
		record.RecordID = id
	}
	event := s.toEvent(record)
	return &event, nil
}

// toEvent maps a row to the client shape, filling the table's defaults.
// Unparseable questions are shown as an empty list.
func (s *EventService) toEvent(record *models.Record) models.Event {
	f := record.Fields
	questions := []interface{}{}
	if err := utils.DecodeJSONField(f, models.FieldEventQuestions, &questions); err != nil || questions == nil {
		questions = []interface{}{}
	}
	status := utils.ExtractString(f, models.FieldStatus)
	if status == "" {
		status = models.EventStatusRecruiting
	}
	hostAvatar := utils.ExtractString(f, models.FieldEventHostAvatar)
	if hostAvatar == "" {
		hostAvatar = models.DefaultEventHostAvatar
	}

	return models.Event{
		ID:            record.RecordID,
		Title:         utils.ExtractString(f, models.FieldEventTitle),
		Description:   utils.ExtractString(f, models.FieldEventDescription),
		Location:      utils.ExtractString(f, models.FieldEventLocation),
		Distance:      utils.ExtractFloat(f, models.FieldEventDistance, 0),
		Time:          utils.ExtractString(f, models.FieldEventTime),
		MaxPeople:     utils.ExtractInt(f, models.FieldEventMaxPeople, models.DefaultEventMaxPeople),
		CurrentPeople: utils.ExtractInt(f, models.FieldEventCurrentPeople, models.DefaultEventCurrentSize),
		Host:          utils.ExtractString(f, models.FieldEventHost),
		HostAvatar:    hostAvatar,
		Questions:     questions,
		Status:        status,
		CreateTime:    utils.ExtractInt(f, models.FieldCreatedAt, s.Now().UnixMilli()),
	}
}
