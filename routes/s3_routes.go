package routes

import (
	"dinnermatch_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterAvatarRoutes sets up presigned avatar URL routes
func RegisterAvatarRoutes(r *mux.Router, signer controllers.AvatarSigner) {
	controller := controllers.NewAvatarController(signer)

	r.HandleFunc("/avatars/upload-url", controller.GenerateUploadURL).Methods("POST")
	r.HandleFunc("/avatars/read-url", controller.GenerateReadURL).Methods("POST")
}
