package controllers

import (
	"net/http"

	"dinnermatch_server/helpers"
	"dinnermatch_server/models"
	"dinnermatch_server/services"

	"github.com/gorilla/mux"
)

// EventController handles HTTP requests for dinner events
type EventController struct {
	EventService *services.EventService
}

// NewEventController creates a new EventController instance
func NewEventController(eventService *services.EventService) *EventController {
	return &EventController{EventService: eventService}
}

// ListEvents handles GET /events
func (ec *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := ec.EventService.List(r.Context())
	if err != nil {
		writeUpstreamError(w, r, err, nil)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"events": events})
}

// CreateEvent handles POST /events
func (ec *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input models.EventInput
	if err := helpers.ParseJSONBody(r, &input); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Title == "" {
		helpers.WriteError(w, http.StatusBadRequest, "title is required")
		return
	}

	event, err := ec.EventService.Create(r.Context(), input)
	if err != nil {
		writeUpstreamError(w, r, err, nil)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"event": event})
}

// UpdateEvent handles PUT /events/{id} with a body of {"fields": {...}}
func (ec *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var request struct {
		Fields map[string]interface{} `json:"fields"`
	}
	if err := helpers.ParseJSONBody(r, &request); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(request.Fields) == 0 {
		helpers.WriteError(w, http.StatusBadRequest, "fields are required")
		return
	}

	event, err := ec.EventService.Update(r.Context(), id, request.Fields)
	if err != nil {
		writeUpstreamError(w, r, err, nil)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{"event": event})
}
