// Package gateway lets function-compute style runtimes drive the HTTP router.
// Such runtimes deliver each request as a JSON event and expect a JSON
// response envelope instead of a raw HTTP exchange.
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"dinnermatch_server/helpers"
)

// InvokePath is where the runtime posts events
const InvokePath = "/invoke"

// Request is the transport-neutral form of an inbound call
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    []byte
}

// Response is returned to the runtime as JSON
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// event is the HTTP-trigger payload: path and method may sit at the top
// level or under requestContext.http depending on the trigger version.
type event struct {
	RawPath               string            `json:"rawPath"`
	Path                  string            `json:"path"`
	HTTPMethod            string            `json:"httpMethod"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	QueryParameters       map[string]string `json:"queryParameters"`
	Body                  string            `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
	RequestContext        struct {
		HTTP struct {
			Method string `json:"method"`
			Path   string `json:"path"`
		} `json:"http"`
	} `json:"requestContext"`
}

// DecodeEvent turns a raw trigger event into a Request.
// Method defaults to GET and path to "/".
func DecodeEvent(raw []byte) (Request, error) {
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Request{}, fmt.Errorf("failed to decode event: %w", err)
	}

	req := Request{
		Method:  firstNonEmpty(ev.RequestContext.HTTP.Method, ev.HTTPMethod, http.MethodGet),
		Path:    firstNonEmpty(ev.RawPath, ev.RequestContext.HTTP.Path, ev.Path, "/"),
		Query:   url.Values{},
		Headers: ev.Headers,
	}
	for k, v := range ev.QueryParameters {
		req.Query.Set(k, v)
	}
	for k, v := range ev.QueryStringParameters {
		req.Query.Set(k, v)
	}

	if ev.Body != "" {
		if ev.IsBase64Encoded {
			body, err := base64.StdEncoding.DecodeString(ev.Body)
			if err != nil {
				return Request{}, fmt.Errorf("failed to decode base64 body: %w", err)
			}
			req.Body = body
		} else {
			req.Body = []byte(ev.Body)
		}
	}
	return req, nil
}

// Serve runs req through h and captures what it writes
func Serve(ctx context.Context, h http.Handler, req Request) (Response, error) {
	target := req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	w := newBufferedWriter()
	h.ServeHTTP(w, httpReq)

	headers := make(map[string]string, len(w.header))
	for k := range w.header {
		headers[k] = w.header.Get(k)
	}
	return Response{
		StatusCode: w.status,
		Headers:    headers,
		Body:       w.body.String(),
	}, nil
}

// EventHandler serves InvokePath: the posted body is an event for h
func EventHandler(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		r.Body.Close()
		if err != nil {
			helpers.WriteError(w, http.StatusBadRequest, "failed to read event")
			return
		}

		req, err := DecodeEvent(raw)
		if err != nil {
			helpers.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimPrefix(req.Path, "/api") == InvokePath {
			helpers.WriteError(w, http.StatusBadRequest, "event cannot target "+InvokePath)
			return
		}

		resp, err := Serve(r.Context(), h, req)
		if err != nil {
			slog.Error("event dispatch failed", "path", req.Path, "error", err)
			helpers.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		helpers.WriteJSONResponse(w, http.StatusOK, resp)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// bufferedWriter is an in-memory http.ResponseWriter
type bufferedWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: http.Header{}, status: http.StatusOK}
}

func (bw *bufferedWriter) Header() http.Header { return bw.header }

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.wroteHeader {
		return
	}
	bw.status = code
	bw.wroteHeader = true
}

func (bw *bufferedWriter) Write(p []byte) (int, error) {
	bw.wroteHeader = true
	return bw.body.Write(p)
}
