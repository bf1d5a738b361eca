package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/database"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/tests/helpers"
	_ "github.com/go-sql-driver/mysql"
)

// TestE2EWithFullStack tests the entire service stack
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()

	tc, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	garrisonHost, _ := tc.GarrisonContainer.Host(ctx)
	garrisonPort, _ := tc.GarrisonContainer.MappedPort(ctx, "5000")
	baseURL := fmt.Sprintf("http://%s:%s", garrisonHost, garrisonPort.Port())

	// Wait a bit for everything to stabilize
	time.Sleep(5 * time.Second)

	// Run E2E tests
	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, tc)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, baseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, baseURL)
	})

	t.Run("AuthRequired", func(t *testing.T) {
		testAuthRequired(t, baseURL)
	})

	t.Run("SupplyCycle", func(t *testing.T) {
		testSupplyCycle(t, baseURL)
	})
}

func testHealthCheck(t *testing.T, tc *helpers.TestContainers) {
	ctx := context.Background()

	// Point config at the mapped ports on localhost, not internal container names
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	dbHost, _ := tc.DBContainer.Host(ctx)
	dbPort, _ := tc.DBContainer.MappedPort(ctx, "3306")
	cfg.DBHost = dbHost
	cfg.DBPort = dbPort.Port()

	gormDB, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	defer database.Close(gormDB)

	result := services.HealthCheck(cfg, gormDB)

	if result.Status != "healthy" {
		t.Errorf("Health check failed: %+v", result)
	}

	t.Logf("Health check passed: status=%s, database=%s", result.Status, result.Database)
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, string(body))
	}

	t.Logf("Metrics endpoint working, found %d bytes of metrics", len(body))
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	if err != nil {
		t.Fatalf("Failed to get Swagger UI: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for Swagger UI, got %d", resp.StatusCode)
	}
}

func testAuthRequired(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/api/assets")
	if err != nil {
		t.Fatalf("Failed to access API: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d. Body: %s", resp.StatusCode, string(body))
	}

	// Verify response is the standard JSON envelope
	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Errorf("Response is not valid JSON: %v", err)
	}
}

// testSupplyCycle drives the full purchase/transfer flow over HTTP
func testSupplyCycle(t *testing.T, baseURL string) {
	password := helpers.GeneratePassword()
	adminToken := helpers.AcquireAccount(t, baseURL, "e2e-admin-"+timestamp(), password, models.RoleAdmin, nil)

	// Create two bases
	alphaID := postJSON(t, baseURL, "/api/bases", adminToken, map[string]string{
		"name": "E2E Base Alpha " + timestamp(), "location": "North",
	})
	bravoID := postJSON(t, baseURL, "/api/bases", adminToken, map[string]string{
		"name": "E2E Base Bravo " + timestamp(), "location": "South",
	})

	// Record a purchase at Alpha
	purchase := postJSONBody(t, baseURL, "/api/purchases", adminToken, map[string]interface{}{
		"name":         "E2E Rifle",
		"type":         "Weapon",
		"quantity":     100,
		"baseId":       alphaID,
		"cost":         50000,
		"supplier":     "Armory Inc",
		"purchaseDate": time.Now().UTC().Format(time.RFC3339),
	})
	assetID := uint64(purchase["assetId"].(float64))

	// Transfer part of it to Bravo
	postJSONBody(t, baseURL, "/api/transfers", adminToken, map[string]interface{}{
		"assetId":    assetID,
		"fromBaseId": alphaID,
		"toBaseId":   bravoID,
		"quantity":   30,
	})

	// Closing balance reflects both rows
	req, _ := http.NewRequest("GET", baseURL+"/api/dashboard/metrics", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	helpers.AssertStatus(t, resp, http.StatusOK)

	var metrics map[string]interface{}
	helpers.ParseJSON(t, resp, &metrics)
	if metrics["closingBalance"].(float64) < 100 {
		t.Errorf("Expected closing balance >= 100, got %v", metrics["closingBalance"])
	}
}

func timestamp() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func postJSON(t *testing.T, baseURL, path, token string, body interface{}) uint64 {
	t.Helper()
	result := postJSONBody(t, baseURL, path, token, body)
	return uint64(result["id"].(float64))
}

func postJSONBody(t *testing.T, baseURL, path, token string, body interface{}) map[string]interface{} {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal body: %v", err)
	}

	req, err := http.NewRequest("POST", baseURL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to POST %s: %v", path, err)
	}
	helpers.AssertStatus(t, resp, http.StatusCreated)

	var result map[string]interface{}
	helpers.ParseJSON(t, resp, &result)
	return result
}

