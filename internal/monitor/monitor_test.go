package monitor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/internal/config"
	"github.com/JaimeStill/vigil/internal/monitor"
	"github.com/JaimeStill/vigil/pkg/lifecycle"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockStore struct {
	catalog *assessment.Catalog
	err     error
}

func (s *mockStore) Catalog(ctx context.Context) (*assessment.Catalog, error) {
	return s.catalog, s.err
}

func knifeOnly(t *testing.T) *assessment.Catalog {
	t.Helper()
	c, err := assessment.NewCatalog([]assessment.Situation{
		{Key: "knife", RiskLabel: "holding a knife", Advisory: "Careful with the knife."},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func assessmentConfig(source config.CatalogSource, file string) *config.AssessmentConfig {
	cfg := &config.AssessmentConfig{CatalogSource: source, CatalogFile: file}
	cfg.Finalize()
	return cfg
}

func TestEngineDefaultsBeforeReload(t *testing.T) {
	m := monitor.New(assessmentConfig(config.SourceDefault, ""), nil, discard())

	e := m.Engine()
	if e == nil {
		t.Fatal("Engine() returned nil before startup")
	}
	if e.Catalog().Len() != assessment.DefaultCatalog().Len() {
		t.Errorf("catalog Len = %d, want embedded catalog", e.Catalog().Len())
	}

	objects := assessment.ObjectsFromNames("Person", "Knife")
	got := e.Analyze(objects, nil, nil).Risks
	want := assessment.Default().Analyze(objects, nil, nil).Risks
	if !slices.Equal(got, want) {
		t.Errorf("Risks = %v, want embedded tables %v", got, want)
	}
}

func TestSwapPublishesNewEngine(t *testing.T) {
	m := monitor.New(assessmentConfig(config.SourceDefault, ""), nil, discard())

	before := m.Engine()
	after := m.Swap(knifeOnly(t))

	if m.Engine() != after {
		t.Error("Engine() should return the swapped engine")
	}
	if before.Catalog().Len() == after.Catalog().Len() {
		t.Error("previous engine snapshot should keep its catalog")
	}

	r := m.Engine().Analyze(assessment.ObjectsFromNames("Knife"), nil, nil)
	if len(r.Risks) != 1 || r.Risks[0] != "holding a knife" {
		t.Errorf("Risks = %v", r.Risks)
	}
}

func TestReloadDatabase(t *testing.T) {
	tests := []struct {
		name    string
		store   monitor.CatalogStore
		wantLen int
		wantErr bool
	}{
		{"stored catalog", &mockStore{catalog: knifeOnly(t)}, 1, false},
		{"empty table falls back", &mockStore{catalog: assessment.EmptyCatalog()}, assessment.DefaultCatalog().Len(), false},
		{"store error", &mockStore{err: errors.New("connection refused")}, 0, true},
		{"no store", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := monitor.New(assessmentConfig(config.SourceDatabase, ""), tt.store, discard())

			e, err := m.Reload(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if m.Engine() == nil {
					t.Error("failed reload should keep the current engine")
				}
				return
			}
			if err != nil {
				t.Fatalf("Reload: %v", err)
			}
			if e.Catalog().Len() != tt.wantLen {
				t.Errorf("catalog Len = %d, want %d", e.Catalog().Len(), tt.wantLen)
			}
		})
	}
}

func TestReloadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
situations:
  - key: ladder
    risk_label: climbing a ladder
    advisory: Keep three points of contact.
environment:
  - category: room
    token: attic
    phrase: an attic
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := monitor.New(assessmentConfig(config.SourceFile, path), nil, discard())
	e, err := m.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}

	r := e.Analyze(nil, assessment.LabelsFromDescriptions("Ladder", "Attic"), nil)
	if len(r.Risks) != 1 || r.Risks[0] != "climbing a ladder" {
		t.Errorf("Risks = %v", r.Risks)
	}
	if r.Environment != "The environment shows: an attic." {
		t.Errorf("Environment = %q, want file vocabulary", r.Environment)
	}
}

func TestStartupLoadFailureBlocksReadiness(t *testing.T) {
	m := monitor.New(
		assessmentConfig(config.SourceFile, filepath.Join(t.TempDir(), "missing.toml")),
		nil, discard(),
	)

	lc := lifecycle.New()
	if err := m.Start(lc); err != nil {
		t.Fatalf("Start: %v", err)
	}
	lc.WaitForStartup()

	if lc.Ready() {
		t.Error("coordinator should not be ready after a failed catalog load")
	}
	if lc.Failures()["catalog"] == nil {
		t.Errorf("failures = %v, want catalog", lc.Failures())
	}
}

func TestConcurrentSwapAndAnalyze(t *testing.T) {
	m := monitor.New(assessmentConfig(config.SourceDefault, ""), nil, discard())
	catalog := knifeOnly(t)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Go(func() {
			if i%4 == 0 {
				m.Swap(catalog)
				return
			}
			m.Engine().Analyze(assessment.ObjectsFromNames("knife", "person"), nil, nil)
		})
	}
	wg.Wait()
}

func TestPublishIgnoresConfiguredSource(t *testing.T) {
	m := monitor.New(assessmentConfig(config.SourceDefault, ""), &mockStore{catalog: knifeOnly(t)}, discard())

	if _, err := m.Publish(context.Background()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	status := m.Status()
	if status.Source != config.SourceDefault {
		t.Errorf("source = %s, want default", status.Source)
	}
	if status.Situations != 1 || status.Keys[0] != "knife" {
		t.Errorf("status = %+v, want knife only", status)
	}
	if status.Mode != "substring" {
		t.Errorf("mode = %s, want substring", status.Mode)
	}
}

func TestHandlerRoutes(t *testing.T) {
	tests := []struct {
		name       string
		store      monitor.CatalogStore
		method     string
		path       string
		wantStatus int
		wantLen    int
	}{
		{"status", nil, "GET", "/monitor", http.StatusOK, assessment.DefaultCatalog().Len()},
		{"reload default", nil, "POST", "/monitor/reload", http.StatusOK, assessment.DefaultCatalog().Len()},
		{"publish", &mockStore{catalog: knifeOnly(t)}, "POST", "/monitor/publish", http.StatusOK, 1},
		{"publish without store", nil, "POST", "/monitor/publish", http.StatusServiceUnavailable, 0},
		{"publish store error", &mockStore{err: errors.New("connection refused")}, "POST", "/monitor/publish", http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := monitor.New(assessmentConfig(config.SourceDefault, ""), tt.store, discard())

			mux := http.NewServeMux()
			group := m.Handler().Routes()
			for _, route := range group.Routes {
				mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
			}

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var status monitor.Status
			if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if status.Situations != tt.wantLen {
				t.Errorf("situations = %d, want %d", status.Situations, tt.wantLen)
			}
		})
	}
}
