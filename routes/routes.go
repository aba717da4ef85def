package routes

import (
	"net/http"

	"dinnermatch_server/controllers"
	"dinnermatch_server/helpers"
	"dinnermatch_server/services"

	"github.com/gorilla/mux"
)

// Services groups what the routes dispatch to. Avatars may be nil when no
// bucket is configured; the avatar routes are then not registered.
type Services struct {
	Match   *services.MatchService
	Quiz    *services.QuizService
	Events  *services.EventService
	Avatars controllers.AvatarSigner
}

// NewRouter builds the API router. Unknown paths and methods both answer 404.
func NewRouter(svc Services) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(helpers.NotFoundHandler)
	r.MethodNotAllowedHandler = http.HandlerFunc(helpers.NotFoundHandler)

	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")

	RegisterMatchRoutes(r, svc.Match)
	RegisterQuizRoutes(r, svc.Quiz)
	RegisterEventRoutes(r, svc.Events)
	if svc.Avatars != nil {
		RegisterAvatarRoutes(r, svc.Avatars)
	}
	return r
}
