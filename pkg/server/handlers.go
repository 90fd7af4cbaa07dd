package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/blueprint/pkg/buildinfo"
	"github.com/matzehuels/blueprint/pkg/diagram"
	errs "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/pipeline"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatGraphviz: "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	docFormat, err := diagram.ParseFormat(r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeUnsupported, err, "unsupported content type"))
		return
	}

	doc, err := diagram.Decode(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody), docFormat)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.cfg.Pipeline
	opts.Formats = []string{format}
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	result, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", contentTypes[format])
	h.Set("X-Diagram-Kind", string(result.Kind))
	h.Set("X-Cache", cacheStatus(result.CacheInfo))
	h.Set("X-Scene-Commands", strconv.Itoa(result.Stats.Commands))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func cacheStatus(ci pipeline.CacheInfo) string {
	switch {
	case ci.LayoutHit && ci.RenderHit:
		return "hit"
	case ci.LayoutHit || ci.RenderHit:
		return "partial"
	default:
		return "miss"
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeMalformedInput, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidKind:
		return http.StatusBadRequest
	case errs.ErrCodeUnresolvedReference:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case errs.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
			Code:    errs.ErrCodeMalformedInput,
			Message: "request body too large",
		})
		return
	}

	status := statusFor(code)
	body := errorBody{Code: code, Message: message(err)}
	if status == http.StatusInternalServerError {
		// Internal details stay in the log.
		s.logger.Error("layout failed", "error", err, "request_id", RequestID(r.Context()))
		body = errorBody{Code: errs.ErrCodeInternal, Message: "internal error"}
	}
	writeJSON(w, status, body)
}

// message is the error text without the code prefix, keeping the cause so
// clients can see which field failed validation.
func message(err error) string {
	var e *errs.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func errNotFound(path string) error {
	return errs.New(errs.ErrCodeNotFound, "no route for %s", path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
