package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cartlens/backend/config"
	"github.com/cartlens/backend/internal/domain"
	"github.com/cartlens/backend/internal/infrastructure/extractor"
	"github.com/cartlens/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	// Run tests
	exitCode := m.Run()

	// Exit with the test result code
	os.Exit(exitCode)
}

// setupTestRouter creates a test router wired to a real enrichment
// service backed by the built-in extractor registry.
func setupTestRouter() *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost:3000"},
		},
		Matching: config.MatchingConfig{
			MinConfidence:            "high",
			TitleSimilarityThreshold: 0.8,
		},
		RateLimit: config.RateLimitConfig{PerIP: 10000},
	}

	service := usecase.NewEnrichmentService(
		extractor.New(extractor.DefaultRegistry()),
		usecase.EnrichmentConfig{
			MinConfidence:            domain.Tier(cfg.Matching.MinConfidence),
			TitleSimilarityThreshold: cfg.Matching.TitleSimilarityThreshold,
		},
	)

	return SetupRouter(cfg, NewHandler(service))
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "cartlens-backend" {
			t.Errorf("service = %v, want cartlens-backend", response["service"])
		}
	})
}

func TestEnrichEndpoint(t *testing.T) {
	t.Run("enriches a cart against session product views", func(t *testing.T) {
		router := setupTestRouter()

		body := map[string]interface{}{
			"sessionId": "sess-42",
			"cart": []map[string]interface{}{
				{
					"title":      "Sport Cap - White",
					"imageUrl":   "https://cdn.example.com/I3A6W-WHTL.jpg",
					"price":      "18.00",
					"quantity":   1,
					"stockCodes": []string{},
				},
			},
			"products": []map[string]interface{}{
				{
					"title":      "Sport Cap",
					"color":      "White",
					"brand":      "Acme",
					"price":      "18.00",
					"stockCodes": []string{"I3A6W"},
				},
			},
		}
		payload, _ := json.Marshal(body)

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var response EnrichResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response.RequestID == "" {
			t.Error("RequestID is empty")
		}
		if response.SessionID != "sess-42" {
			t.Errorf("SessionID = %q, want sess-42", response.SessionID)
		}
		if len(response.Result.Items) != 1 {
			t.Fatalf("len(Items) = %d, want 1", len(response.Result.Items))
		}

		item := response.Result.Items[0]
		if item.MatchMethod != domain.MethodImageCode {
			t.Errorf("MatchMethod = %s, want image_code", item.MatchMethod)
		}
		if !item.WasViewed {
			t.Error("WasViewed = false, want true")
		}
		if item.Brand != "Acme" {
			t.Errorf("Brand = %q, want Acme", item.Brand)
		}
		if response.Result.Summary.MatchRate != 100 {
			t.Errorf("MatchRate = %v, want 100", response.Result.Summary.MatchRate)
		}
	})

	t.Run("empty product list yields unmatched items, not an error", func(t *testing.T) {
		router := setupTestRouter()

		body := map[string]interface{}{
			"cart": []map[string]interface{}{
				{"title": "Sport Cap", "price": "18.00"},
			},
			"products": []map[string]interface{}{},
		}
		payload, _ := json.Marshal(body)

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var response EnrichResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Result.Summary.MatchRate != 0 {
			t.Errorf("MatchRate = %v, want 0", response.Result.Summary.MatchRate)
		}
		if response.Result.Items[0].MatchConfidence != domain.ConfidenceNone {
			t.Errorf("MatchConfidence = %s, want none", response.Result.Items[0].MatchConfidence)
		}
	})

	t.Run("per-request options loosen the confidence floor", func(t *testing.T) {
		router := setupTestRouter()

		body := map[string]interface{}{
			"cart": []map[string]interface{}{
				{"title": "Sport Cap", "url": "https://shop.example.com/cap"},
			},
			"products": []map[string]interface{}{
				{"title": "Sport Cap", "url": "https://shop.example.com/cap/"},
			},
			"options": map[string]interface{}{"minConfidence": "medium"},
		}
		payload, _ := json.Marshal(body)

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		var response EnrichResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if got := response.Result.Items[0].MatchMethod; got != domain.MethodURL {
			t.Errorf("MatchMethod = %s, want url", got)
		}
	})

	t.Run("rejects a cart line without title", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich",
			bytes.NewReader([]byte(`{"cart": [{"price": "18.00"}]}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to unmarshal error body: %v", err)
		}
		if body["error"] != domain.ErrInvalidRequest.Error() {
			t.Errorf("error = %q, want %q", body["error"], domain.ErrInvalidRequest.Error())
		}
	})

	t.Run("rejects an unknown confidence tier in options", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich",
			bytes.NewReader([]byte(`{"cart": [{"title": "Sport Cap"}], "options": {"minConfidence": "hgih"}}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d (body: %s)", w.Code, http.StatusBadRequest, w.Body.String())
		}
	})

	t.Run("empty cart is a valid degenerate request", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich", bytes.NewReader([]byte(`{"cart": []}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var response EnrichResponse
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Result.Summary.TotalItems != 0 {
			t.Errorf("TotalItems = %d, want 0", response.Result.Summary.TotalItems)
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		router := setupTestRouter()

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich", bytes.NewReader([]byte(`{not json`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("returns 501 when the service is not wired", func(t *testing.T) {
		cfg := &config.Config{
			Server:    config.ServerConfig{Environment: "test"},
			RateLimit: config.RateLimitConfig{PerIP: 10000},
		}
		router := SetupRouter(cfg, NewHandler(nil))

		req, _ := http.NewRequest("POST", "/api/v1/cart/enrich", bytes.NewReader([]byte(`{"cart": []}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotImplemented {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotImplemented)
		}
	})
}
