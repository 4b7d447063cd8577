package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/vigil/internal/situations"
	"github.com/JaimeStill/vigil/pkg/handlers"
	"github.com/JaimeStill/vigil/pkg/openapi"
	"github.com/JaimeStill/vigil/pkg/routes"
	"github.com/JaimeStill/vigil/pkg/storage"
)

// catalogHandler browses the catalog documents kept in blob storage under
// situations.ExportPrefix.
type catalogHandler struct {
	store       storage.System
	logger      *slog.Logger
	maxListSize int32
}

func newCatalogHandler(
	store storage.System,
	logger *slog.Logger,
	maxListSize int32,
) *catalogHandler {
	return &catalogHandler{
		store:       store,
		logger:      logger.With("handler", "catalogs"),
		maxListSize: maxListSize,
	}
}

func (h *catalogHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/catalogs",
		Tags:   []string{"Catalogs"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: catalogSpec.list},
			{Method: "GET", Pattern: "/{name}", Handler: h.find, OpenAPI: catalogSpec.find},
			{Method: "GET", Pattern: "/{name}/download", Handler: h.download, OpenAPI: catalogSpec.download},
			{Method: "DELETE", Pattern: "/{name}", Handler: h.delete, OpenAPI: catalogSpec.delete},
		},
	}
}

func (h *catalogHandler) list(w http.ResponseWriter, r *http.Request) {
	maxResults, err := storage.ParseMaxResults(
		r.URL.Query().Get("max_results"),
		h.maxListSize,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.List(
		r.Context(),
		situations.ExportPrefix,
		r.URL.Query().Get("marker"),
		maxResults,
	)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *catalogHandler) find(w http.ResponseWriter, r *http.Request) {
	key, err := catalogKey(r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	meta, err := h.store.Find(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, meta)
}

func (h *catalogHandler) download(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	key, err := catalogKey(name)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, result.Body)
}

func (h *catalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	key, err := catalogKey(r.PathValue("name"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	h.logger.Info("catalog deleted", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

func catalogKey(name string) (string, error) {
	if name == "" {
		return "", storage.ErrEmptyKey
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", storage.ErrInvalidKey
	}
	return situations.ExportPrefix + name, nil
}

var catalogSpec = struct {
	list     *openapi.Operation
	find     *openapi.Operation
	download *openapi.Operation
	delete   *openapi.Operation
}{
	list: &openapi.Operation{
		Summary: "List exported catalogs",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("marker", "string", "Continuation marker from a previous page", false),
			openapi.QueryParam("max_results", "integer", "Page size", false),
		},
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Catalog documents", "BlobList"),
		}, 400),
	},
	find: &openapi.Operation{
		Summary:    "Describe an exported catalog",
		Parameters: []*openapi.Parameter{nameParam()},
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseJSON("Catalog document", "Blob"),
		}, 400, 404),
	},
	download: &openapi.Operation{
		Summary:    "Download an exported catalog",
		Parameters: []*openapi.Parameter{nameParam()},
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			200: openapi.ResponseBinary("Catalog document", "application/toml"),
		}, 400, 404),
	},
	delete: &openapi.Operation{
		Summary:    "Delete an exported catalog",
		Parameters: []*openapi.Parameter{nameParam()},
		Responses: openapi.StandardErrors(map[int]*openapi.Response{
			204: {Description: "Deleted"},
		}, 400, 404),
	},
}

func nameParam() *openapi.Parameter {
	return &openapi.Parameter{
		Name:        "name",
		In:          "path",
		Required:    true,
		Description: "Document name under catalogs/",
		Schema:      &openapi.Schema{Type: "string", Example: "kitchen.toml"},
	}
}

func catalogSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Blob": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":            {Type: "string"},
				"content_type":   {Type: "string"},
				"content_length": {Type: "integer"},
				"last_modified":  {Type: "string", Format: "date-time"},
			},
		},
		"BlobList": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"blobs":       {Type: "array", Items: openapi.SchemaRef("Blob")},
				"next_marker": {Type: "string"},
			},
		},
	}
}
