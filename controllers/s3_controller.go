package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"dinnermatch_server/helpers"
)

// AvatarSigner issues presigned avatar URLs
type AvatarSigner interface {
	GenerateUploadURL(ctx context.Context, fileName, fileType string) (string, string, error)
	GenerateReadURL(ctx context.Context, key string) (string, error)
}

// AvatarController hands out presigned URLs so clients upload avatars directly
type AvatarController struct {
	Signer AvatarSigner
}

// NewAvatarController creates a new AvatarController instance
func NewAvatarController(signer AvatarSigner) *AvatarController {
	return &AvatarController{Signer: signer}
}

// GenerateUploadURL handles POST /avatars/upload-url
func (ac *AvatarController) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := helpers.ParseJSONBody(r, &payload); err != nil {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.FileName == "" || payload.FileType == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	url, key, err := ac.Signer.GenerateUploadURL(r.Context(), payload.FileName, payload.FileType)
	if err != nil {
		slog.Error("failed to presign avatar upload", "file", payload.FileName, "error", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to generate pre-signed URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// GenerateReadURL handles POST /avatars/read-url
func (ac *AvatarController) GenerateReadURL(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := helpers.ParseJSONBody(r, &payload); err != nil || payload.Key == "" {
		helpers.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	url, err := ac.Signer.GenerateReadURL(r.Context(), payload.Key)
	if err != nil {
		slog.Error("failed to presign avatar read", "key", payload.Key, "error", err)
		helpers.WriteError(w, http.StatusInternalServerError, "Failed to generate read pre-signed URL")
		return
	}

	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
