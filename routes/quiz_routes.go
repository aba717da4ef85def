package routes

import (
	"dinnermatch_server/controllers"
	"dinnermatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterQuizRoutes sets up the quiz-gated daily match under /quiz/match
func RegisterQuizRoutes(r *mux.Router, quizService *services.QuizService) {
	controller := controllers.NewQuizController(quizService)

	quizRouter := r.PathPrefix("/quiz/match").Subrouter()
	quizRouter.HandleFunc("", controller.GetMatch).Methods("GET")
	quizRouter.HandleFunc("/create", controller.CreateMatch).Methods("POST")
	quizRouter.HandleFunc("/join", controller.JoinMatch).Methods("POST")
}
