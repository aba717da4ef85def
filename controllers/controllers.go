package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dinnermatch_server/helpers"
)

// dateLayout is the calendar-day key used by every match table
const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// resolveDate defaults an empty date to today's UTC calendar day
func resolveDate(date string, now func() time.Time) (string, error) {
	if date == "" {
		return now().UTC().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return "", errInvalidDate
	}
	return date, nil
}

// writeUpstreamError reports a failed upstream call as a 500 carrying its message
func writeUpstreamError(w http.ResponseWriter, r *http.Request, err error, extra map[string]interface{}) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	body := map[string]interface{}{"error": err.Error()}
	for k, v := range extra {
		body[k] = v
	}
	helpers.WriteJSONResponse(w, http.StatusInternalServerError, body)
}
