package api

import (
	"fmt"
	"maps"
	"net/http"

	"github.com/JaimeStill/vigil/internal/analyses"
	"github.com/JaimeStill/vigil/internal/config"
	"github.com/JaimeStill/vigil/internal/monitor"
	"github.com/JaimeStill/vigil/internal/situations"
	"github.com/JaimeStill/vigil/pkg/openapi"
	"github.com/JaimeStill/vigil/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := []routes.Group{
		domain.Analyses.Handler(cfg.API.MaxUploadSize.Bytes(), cfg.API.MaxBatchSize).Routes(),
		domain.Situations.Handler().Routes(),
		domain.Monitor.Handler().Routes(),
		newCatalogHandler(runtime.Storage, runtime.Logger, cfg.Storage.MaxListSize).routes(),
	}

	routes.Register(mux, groups...)

	specBytes, err := buildSpec(cfg, groups)
	if err != nil {
		return fmt.Errorf("build openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.FromConfig(&cfg.OpenAPI, cfg.Version)
	if len(spec.Servers) == 0 {
		spec.AddServer(cfg.API.BasePath)
	}

	schemas := make(map[string]*openapi.Schema)
	maps.Copy(schemas, analyses.Schemas())
	maps.Copy(schemas, situations.Schemas())
	maps.Copy(schemas, monitor.Schemas())
	maps.Copy(schemas, catalogSchemas())
	spec.Components.AddSchemas(schemas)

	routes.Describe(spec, "", groups...)
	return openapi.MarshalJSON(spec)
}
