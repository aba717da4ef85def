package controllers

import (
	"net/http"
	"time"

	"dinnermatch_server/helpers"
	"dinnermatch_server/models"
	"dinnermatch_server/services"
)

// MatchController handles HTTP requests for the open-join daily match
type MatchController struct {
	MatchService *services.MatchService
	Now          func() time.Time
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService, Now: time.Now}
}

type joinMatchRequest struct {
	Date        string              `json:"date"`
	Participant *models.Participant `json:"participant"`
}

// GetMatch handles GET /match?date=YYYY-MM-DD
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	date, err := resolveDate(r.URL.Query().Get("date"), mc.Now)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := mc.MatchService.GetMatch(r.Context(), date)
	if err != nil {
		writeUpstreamError(w, r, err, nil)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"match": match})
}

// JoinMatch handles POST /match/join
func (mc *MatchController) JoinMatch(w http.ResponseWriter, r *http.Request) {
	var request joinMatchRequest
	if err := helpers.ParseJSONBody(r, &request); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.Participant == nil {
		helpers.WriteError(w, http.StatusBadRequest, "participant is required")
		return
	}
	date, err := resolveDate(request.Date, mc.Now)
	if err != nil {
		helpers.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	match, err := mc.MatchService.Join(r.Context(), date, *request.Participant)
	if err != nil {
		writeUpstreamError(w, r, err, nil)
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"match": match})
}
