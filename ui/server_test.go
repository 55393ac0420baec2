package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	costsadapter "godiag/adapters/costs"
	"godiag/adapters/stats/agreement"
	"godiag/adapters/stats/correction"
	"godiag/adapters/stats/engine"
	"godiag/app"
	"godiag/internal"

	"github.com/gin-gonic/gin"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := costsadapter.NewDefaultCatalog()
	calculator := engine.NewCalculator()
	analyzer := costsadapter.NewAnalyzer(catalog)

	server, err := NewServer(
		app.NewExperimentService(calculator, analyzer, nil, 0.95),
		app.NewComparisonService(calculator, agreement.NewEstimator(), correction.NewCorrector(), analyzer),
		nil,
		analyzer,
		catalog,
		internal.NewLogger(internal.LogLevelError),
		16,
	)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return server
}

func doJSON(t *testing.T, server *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestSubmitExperiment_JSON(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/experiments",
		`{"name":"Run 1","technique":"PCR","tp":85,"fp":3,"tn":92,"fn":5,"confidence_level":0.95}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Statistics struct {
			Sensitivity struct {
				Value float64 `json:"value"`
			} `json:"sensitivity"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Statistics.Sensitivity.Value < 0.94 || payload.Statistics.Sensitivity.Value > 0.95 {
		t.Errorf("sensitivity = %g, want ~0.9444", payload.Statistics.Sensitivity.Value)
	}
}

func TestSubmitExperiment_RejectsZeroMatrix(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/experiments",
		`{"name":"Zero","technique":"PCR","tp":0,"fp":0,"tn":0,"fn":0}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestCompare_Endpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/compare", `{"experiments":[
		{"name":"A","technique":"PCR","tp":85,"fp":3,"tn":92,"fn":5},
		{"name":"B","technique":"LAMP","tp":80,"fp":8,"tn":87,"fn":10}
	]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		KappaResults map[string]json.RawMessage `json:"kappa_results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := payload.KappaResults["A vs B"]; !ok {
		t.Errorf("missing pair key, got %v", payload.KappaResults)
	}
}

func TestCorrect_Endpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/correct",
		`{"p_values":[0.01,0.02,0.03],"method":"bonferroni"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Corrected []float64 `json:"corrected_p_values"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Corrected) != 3 || payload.Corrected[0] != 0.03 {
		t.Errorf("corrected = %v, want [0.03 0.06 0.09]", payload.Corrected)
	}
}

func TestCorrect_UnknownMethod(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/correct",
		`{"p_values":[0.01],"method":"sidak"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestTechniqueProfile_Endpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/costs/techniques/pcr", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, "/costs/techniques/crystal_ball", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStudies_WithoutPersistence(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodPost, "/comparisons",
		`{"name":"Study 1","experiment_ids":[]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, "/comparisons", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCostComparison_Endpoint(t *testing.T) {
	server := newTestServer(t)

	rec := doJSON(t, server, http.MethodGet, "/costs?samples=100&years=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, server, http.MethodGet, "/costs?samples=-5", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
