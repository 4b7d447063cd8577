package monitor

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/pkg/handlers"
	"github.com/JaimeStill/vigil/pkg/openapi"
	"github.com/JaimeStill/vigil/pkg/routes"
)

// Handler exposes the active engine over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler for the given monitor.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "monitor"),
	}
}

// Routes returns the route group definition for monitor endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/monitor",
		Tags:   []string{"Monitor"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Status, OpenAPI: spec.status},
			{Method: "POST", Pattern: "/reload", Handler: h.Reload, OpenAPI: spec.reload},
			{Method: "POST", Pattern: "/publish", Handler: h.Publish, OpenAPI: spec.publish},
		},
	}
}

// Status reports the active engine.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Status())
}

// Reload rereads the configured catalog source.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sys.Reload(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.sys.Status())
}

// Publish hands the stored situation catalog to the engine.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sys.Publish(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.sys.Status())
}

// MapHTTPStatus maps monitor errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, assessment.ErrInvalidCatalog),
		errors.Is(err, assessment.ErrInvalidVocabulary),
		errors.Is(err, assessment.ErrUnknownFormat):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var spec = struct {
	status  *openapi.Operation
	reload  *openapi.Operation
	publish *openapi.Operation
}{
	status: &openapi.Operation{
		Summary: "Active engine status",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Engine status", "MonitorStatus"),
		},
	},
	reload: &openapi.Operation{
		Summary:     "Reload the catalog",
		Description: "Rereads the configured catalog source and publishes it.",
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Engine status", "MonitorStatus"),
		}, 409, 503),
	},
	publish: &openapi.Operation{
		Summary:     "Publish the stored catalog",
		Description: "Publishes the situations table to the running engine. An empty table publishes the embedded catalog.",
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Engine status", "MonitorStatus"),
		}, 409, 503),
	},
}

// Schemas returns the component schemas referenced by the monitor routes.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"MonitorStatus": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"source":     {Type: "string", Example: "database"},
				"mode":       {Type: "string", Example: "substring"},
				"situations": {Type: "integer"},
				"keys":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
	}
}
