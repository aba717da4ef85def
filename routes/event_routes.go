package routes

import (
	"dinnermatch_server/controllers"
	"dinnermatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterEventRoutes sets up dinner event routes under /events
func RegisterEventRoutes(r *mux.Router, eventService *services.EventService) {
	controller := controllers.NewEventController(eventService)

	r.HandleFunc("/events", controller.ListEvents).Methods("GET")
	r.HandleFunc("/events", controller.CreateEvent).Methods("POST")
	r.HandleFunc("/events/{id}", controller.UpdateEvent).Methods("PUT")
}
