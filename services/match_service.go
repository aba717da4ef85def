package services

import (
	"context"
	"log/slog"
	"time"

	"dinnermatch_server/models"
)

// MatchService runs the open-join daily match: the first two joiners are paired.
// Each call is a plain read-modify-write; concurrent joins for one date can lose updates.
type MatchService struct {
	Store    *MatchStore
	Notifier Notifier
	Now      func() time.Time
}

// NewMatchService creates the service; notifier may be nil
func NewMatchService(store *MatchStore, notifier Notifier) *MatchService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &MatchService{Store: store, Notifier: notifier, Now: time.Now}
}

// GetMatch returns the record for date or nil
func (s *MatchService) GetMatch(ctx context.Context, date string) (*models.DailyMatch, error) {
	return s.Store.FetchToday(ctx, date)
}

// Join adds participant to the day's queue, creating the day's record if needed
func (s *MatchService) Join(ctx context.Context, date string, participant models.Participant) (*models.DailyMatch, error) {
	existing, err := s.Store.FetchToday(ctx, date)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		match := &models.DailyMatch{
			Date:         date,
			Participants: []models.Participant{participant},
			Status:       models.MatchStatusWaiting,
			Matched:      []models.Participant{},
			Topic:        participant.Topics,
		}
		created, err := s.Store.CreateToday(ctx, match, s.Now().UnixMilli())
		if err != nil {
			return nil, err
		}
		slog.Info("🆕 daily match opened", "date", date, "record", created.ID)
		return created, nil
	}

	updated, justMatched := applyJoin(existing, participant)
	if err := s.Store.UpdateToday(ctx, updated); err != nil {
		return nil, err
	}

	if justMatched {
		slog.Info("💞 daily match paired", "date", date, "record", updated.ID)
		s.Notifier.NotifyMatched(date, map[string]interface{}{"match": updated})
	} else {
		slog.Info("➕ participant joined daily match", "date", date, "record", updated.ID, "participants", len(updated.Participants))
	}
	return updated, nil
}

// applyJoin computes the record after participant joins. The joiner is always
// appended, even once matched; only a waiting record can become matched.
func applyJoin(match *models.DailyMatch, participant models.Participant) (*models.DailyMatch, bool) {
	next := *match
	next.Participants = append(append([]models.Participant{}, match.Participants...), participant)
	next.Matched = append([]models.Participant{}, match.Matched...)

	justMatched := false
	if match.Status == models.MatchStatusWaiting && len(next.Participants) >= 2 {
		next.Status = models.MatchStatusMatched
		next.Matched = append([]models.Participant{}, next.Participants[:2]...)
		justMatched = true
	}

	if next.Topic == "" {
		next.Topic = participant.Topics
	}
	return &next, justMatched
}
