package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"restockplan/internal/domain"
	"restockplan/internal/service"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewSimulationHandler(service.NewSimulationService(nil))
	router.POST("/api/v1/simulations/run", handler.Run)
	router.POST("/api/v1/simulations/compare", handler.Compare)
	return router
}

func validParams() *domain.SimulationParams {
	params := &domain.SimulationParams{
		SimStart: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Batches: []domain.Batch{
			{ID: "b1", Name: "First order", Type: domain.ShipmentSea, Qty: 200, Offset: 0, ProdDays: 10},
		},
		Global: domain.GlobalParams{UnitCost: 4, ExchRate: 1},
		Logistics: map[domain.ShipmentType]domain.LogisticsOption{
			domain.ShipmentSea: {Days: 30, Price: 1},
		},
	}
	for m := 0; m < 12; m++ {
		params.Sales.DailySales[m] = 5
		params.Sales.Prices[m] = 15
		params.Sales.Fees[m] = &domain.FeeSchedule{Commission: 0.1}
	}
	return params
}

func TestSimulationHandler_Run(t *testing.T) {
	router := testRouter()

	body, _ := json.Marshal(validParams())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result *domain.SimulationResult `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result == nil {
		t.Fatal("expected a simulation result")
	}
	if resp.Result.TotalRevenue <= 0 {
		t.Errorf("expected positive revenue, got %v", resp.Result.TotalRevenue)
	}
}

func TestSimulationHandler_RunEmptyBatches(t *testing.T) {
	router := testRouter()

	params := validParams()
	params.Batches = nil
	body, _ := json.Marshal(params)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Not an error: the engine reports no result and the client renders
	// a placeholder.
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Result *domain.SimulationResult `json:"result"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result != nil {
		t.Errorf("expected null result, got %+v", resp.Result)
	}
}

func TestSimulationHandler_RunRejectsMalformedBody(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations/run", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSimulationHandler_Compare(t *testing.T) {
	router := testRouter()

	small := validParams()
	large := validParams()
	large.Batches[0].Qty = 2000

	body, _ := json.Marshal([]*domain.SimulationParams{small, large})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulations/compare", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []*domain.SimulationResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[1].TotalRevenue <= resp.Results[0].TotalRevenue {
		t.Error("expected larger batch to yield more revenue, order must be preserved")
	}
}
