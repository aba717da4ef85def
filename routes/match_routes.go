package routes

import (
	"dinnermatch_server/controllers"
	"dinnermatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up the open-join daily match under /match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/match").Subrouter()
	matchRouter.HandleFunc("", controller.GetMatch).Methods("GET")
	matchRouter.HandleFunc("/join", controller.JoinMatch).Methods("POST")
}
