package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/julienschmidt/httprouter"
	"github.com/oklog/ulid/v2"

	"github.com/mesh-intelligence/graphbridge/internal/resource"
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "request-id"

// maxBodySize bounds PATCH and POST bodies.
const maxBodySize = 1 << 20

// resourceHandler adapts a controller to httprouter.
func resourceHandler(c *resource.Controller) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sink := &httpSink{w: w}
		req := &resource.Request{
			FolderID:   ps.ByName("folderid"),
			ItemID:     ps.ByName("itemid"),
			Segment:    ps.ByName("segment"),
			DeltaToken: r.URL.Query().Get("$deltatoken"),
			Path:       r.URL.Path,
		}

		if r.Method == http.MethodPatch || r.Method == http.MethodPost {
			var body types.Document
			dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
			if err := dec.Decode(&body); err != nil {
				sink.RespondError(types.ErrorCodeBadRequest, "Malformed JSON body: "+err.Error())
				return
			}
			if body == nil {
				body = types.Document{}
			}
			req.Body = body
		}

		c.Handle(r.Context(), r.Method, req, sink)
	}
}

// httpSink writes controller responses as JSON.
type httpSink struct {
	w http.ResponseWriter
}

func (s *httpSink) Respond(doc types.Document) error {
	return writeJSON(s.w, http.StatusOK, doc)
}

func (s *httpSink) RespondCreated(doc types.Document) error {
	return writeJSON(s.w, http.StatusCreated, doc)
}

func (s *httpSink) RespondNoContent() error {
	s.w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *httpSink) RespondError(code types.ErrorCode, message string) error {
	return writeError(s.w, StatusOf(code), code, message)
}

// StatusOf maps an error code to its HTTP status.
func StatusOf(code types.ErrorCode) int {
	switch code {
	case types.ErrorCodeBadRequest:
		return http.StatusBadRequest
	case types.ErrorCodeNotFound:
		return http.StatusNotFound
	case types.ErrorCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code types.ErrorCode, message string) error {
	return writeJSON(w, status, types.Document{
		"error": types.Document{
			"code":    string(code),
			"message": message,
		},
	})
}

// statusRecorder remembers the status written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logWrapper assigns a request id and logs each request on completion.
func logWrapper(logger hclog.Logger, handler httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id := ulid.Make().String()
		w.Header().Set(RequestIDHeader, id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		handler(rec, r, ps)

		logger.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	}
}
