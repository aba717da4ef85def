package services

import (
	"context"
	"log/slog"
	"time"

	"dinnermatch_server/models"
)

// QuizService runs the quiz-gated daily match. A creator opens the day with
// questions; the first opposite-gender joiner who answered everything
// correctly is paired with the creator.
type QuizService struct {
	Store    *QuizStore
	Notifier Notifier
	Now      func() time.Time
}

// NewQuizService creates the service; notifier may be nil
func NewQuizService(store *QuizStore, notifier Notifier) *QuizService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &QuizService{Store: store, Notifier: notifier, Now: time.Now}
}

// GetMatch returns the quiz record for date or nil
func (s *QuizService) GetMatch(ctx context.Context, date string) (*models.QuizMatch, error) {
	return s.Store.FetchToday(ctx, date)
}

// Create opens the day's quiz match. It does not look for an existing record,
// so two creates for one date leave two rows and reads see the first.
func (s *QuizService) Create(ctx context.Context, date string, creator models.QuizParticipant, questions []interface{}) (*models.QuizMatch, error) {
	if questions == nil {
		questions = []interface{}{}
	}
	creator.AllCorrect = false

	match := &models.QuizMatch{
		Date:           date,
		Creator:        creator,
		Questions:      questions,
		Status:         models.QuizStatusAwaiting,
		Matched:        []models.QuizParticipant{},
		FailedAttempts: []models.QuizParticipant{},
	}
	created, err := s.Store.CreateToday(ctx, match, s.Now().UnixMilli())
	if err != nil {
		return nil, err
	}
	slog.Info("🆕 quiz match opened", "date", date, "record", created.ID, "questions", len(questions))
	return created, nil
}

// Join tries to pair participant with the day's creator.
// Refusals come back as a *RejectionError together with the current record
// (nil for ErrNoActiveMatch). A wrong answer is not a refusal: it is recorded
// in failedAttempts and the still-open record is returned without error.
func (s *QuizService) Join(ctx context.Context, date string, participant models.QuizParticipant) (*models.QuizMatch, error) {
	match, err := s.Store.FetchToday(ctx, date)
	if err != nil {
		return nil, err
	}

	next, justMatched, err := applyQuizJoin(match, participant)
	if err != nil {
		slog.Info("🚫 quiz join rejected", "date", date, "reason", err.Error())
		return match, err
	}

	if err := s.Store.UpdateToday(ctx, next); err != nil {
		return nil, err
	}

	if justMatched {
		slog.Info("💞 quiz match paired", "date", date, "record", next.ID)
		s.Notifier.NotifyMatched(date, map[string]interface{}{"match": next})
	} else {
		slog.Info("❌ quiz attempt failed", "date", date, "record", next.ID, "failed_attempts", len(next.FailedAttempts))
	}
	return next, nil
}

// applyQuizJoin checks the gates in order and computes the next state
func applyQuizJoin(match *models.QuizMatch, participant models.QuizParticipant) (*models.QuizMatch, bool, error) {
	if match == nil {
		return nil, false, ErrNoActiveMatch
	}
	if participant.Gender == match.Creator.Gender {
		return nil, false, ErrGenderConflict
	}
	if len(match.Matched) == 2 {
		return nil, false, ErrAlreadyMatched
	}

	next := *match
	if participant.AllCorrect {
		next.Matched = []models.QuizParticipant{match.Creator, participant}
		next.Status = models.QuizStatusMatched
		return &next, true, nil
	}

	next.FailedAttempts = append(append([]models.QuizParticipant{}, match.FailedAttempts...), participant)
	return &next, false, nil
}
