package controllers

import (
	"errors"
	"net/http"
	"time"

	"dinnermatch_server/helpers"
	"dinnermatch_server/models"
	"dinnermatch_server/services"
)

// QuizController handles HTTP requests for the quiz-gated daily match
type QuizController struct {
	QuizService *services.QuizService
	Now         func() time.Time
}

// NewQuizController creates a new QuizController instance
func NewQuizController(quizService *services.QuizService) *QuizController {
	return &QuizController{QuizService: quizService, Now: time.Now}
}

type createQuizRequest struct {
	Date      string                  `json:"date"`
	Creator   *models.QuizParticipant `json:"creator"`
	Questions []interface{}           `json:"questions"`
}

type joinQuizRequest struct {
	Date        string                  `json:"date"`
	Participant *models.QuizParticipant `json:"participant"`
}

// GetMatch handles GET /quiz/match?date=YYYY-MM-DD
func (qc *QuizController) GetMatch(w http.ResponseWriter, r *http.Request) {
	date, err := resolveDate(r.URL.Query().Get("date"), qc.Now)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := qc.QuizService.GetMatch(r.Context(), date)
	if err != nil {
		writeUpstreamError(w, r, err, nil)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"match": match})
}

// CreateMatch handles POST /quiz/match/create
func (qc *QuizController) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var request createQuizRequest
	if err := helpers.ParseJSONBody(r, &request); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Creator == nil {
		helpers.WriteError(w, http.StatusBadRequest, "creator is required")
		return
	}
	date, err := resolveDate(request.Date, qc.Now)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := qc.QuizService.Create(r.Context(), date, *request.Creator, request.Questions)
	if err != nil {
		writeUpstreamError(w, r, err, map[string]interface{}{"match": nil})
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"match": match})
}

// JoinMatch handles POST /quiz/match/join.
// Rule refusals are normal 200 responses carrying an error string.
func (qc *QuizController) JoinMatch(w http.ResponseWriter, r *http.Request) {
	var request joinQuizRequest
	if err := helpers.ParseJSONBody(r, &request); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Participant == nil {
		helpers.WriteError(w, http.StatusBadRequest, "participant is required")
		return
	}
	date, err := resolveDate(request.Date, qc.Now)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := qc.QuizService.Join(r.Context(), date, *request.Participant)
	var rejection *services.RejectionError
	switch {
	case errors.As(err, &rejection):
		helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
			"error":  rejection.Message,
			"reason": rejection.Reason,
			"match":  match,
		})
	case err != nil:
		writeUpstreamError(w, r, err, nil)
	default:
		helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"match": match})
	}
}
