package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/vigil/internal/api"
	"github.com/JaimeStill/vigil/internal/config"
	"github.com/JaimeStill/vigil/internal/infrastructure"
	"github.com/JaimeStill/vigil/pkg/middleware"
	"github.com/JaimeStill/vigil/pkg/module"
	"github.com/JaimeStill/vigil/web/scalar"
)

type Modules struct {
	API    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	scalarModule := scalar.NewModule(
		"/scalar",
		cfg.OpenAPI.Title,
		cfg.API.BasePath+"/openapi.json",
	)
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()
	router.Use(middleware.Recover(infra.Logger))
	router.Use(middleware.WithRequestID())

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]bool{
			"database": infra.Database.Ready(),
			"storage":  infra.Storage.Ready(),
			"vision":   infra.Vision != nil,
		}

		if !infra.Lifecycle.Ready() {
			failures := make(map[string]string)
			for name, err := range infra.Lifecycle.Failures() {
				failures[name] = err.Error()
			}
			writeStatus(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "not ready",
				"checks":   checks,
				"failures": failures,
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]any{
			"status": "ready",
			"checks": checks,
		})
	})

	return router
}

func writeStatus(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
