// internal/domain/models.go
package domain

import "time"

// ShipmentType identifies a logistics channel in the logistics table.
type ShipmentType string

const (
	ShipmentSea     ShipmentType = "sea"
	ShipmentAir     ShipmentType = "air"
	ShipmentExpress ShipmentType = "express"
)

// Batch represents one purchase order of units with its own timeline.
type Batch struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         ShipmentType `json:"type"`
	Qty          float64      `json:"qty"`
	ExtraPercent float64      `json:"extra_percent"`
	Offset       int          `json:"offset"`
	ProdDays     int          `json:"prod_days"`
}

// PaymentTerms splits the production cost into deposit and balance
// percentages. They are applied independently and are not required to
// total 100.
type PaymentTerms struct {
	DepositPct float64 `json:"deposit"`
	BalancePct float64 `json:"balance"`
}

// GlobalParams holds per-unit purchase assumptions shared by all batches.
type GlobalParams struct {
	UnitCost     float64      `json:"unit_cost"`
	ExchRate     float64      `json:"exch_rate"`
	PaymentTerms PaymentTerms `json:"payment_terms"`
}

// LogisticsOption describes one shipment channel: transit time in days
// (may be fractional) and per-unit freight price.
type LogisticsOption struct {
	Days  float64 `json:"days"`
	Price float64 `json:"price"`
}

// FeeSchedule is the per-unit fee profile for one calendar month.
// Commission and Tacos are rates on the sale price; FBA, Other and
// Storage are fixed per-unit charges.
type FeeSchedule struct {
	Commission float64 `json:"commission"`
	Tacos      float64 `json:"tacos"`
	FBA        float64 `json:"fba"`
	Other      float64 `json:"other"`
	Storage    float64 `json:"storage"`
}

// SalesPlan holds twelve-slot assumptions indexed by calendar month (0-11).
// A nil fee slot falls back to month 0's schedule.
type SalesPlan struct {
	DailySales [12]float64      `json:"daily_sales"`
	Prices     [12]float64      `json:"prices"`
	Fees       [12]*FeeSchedule `json:"fees"`
}

// SimulationParams is the full input for one simulation run.
type SimulationParams struct {
	SimStart  time.Time                        `json:"sim_start"`
	Batches   []Batch                          `json:"batches"`
	Global    GlobalParams                     `json:"global"`
	Logistics map[ShipmentType]LogisticsOption `json:"logistics"`
	Sales     SalesPlan                        `json:"sales"`
	MaxDays   int                              `json:"max_days,omitempty"`
}

// SegmentKind labels a timeline segment for Gantt rendering.
type SegmentKind string

const (
	SegmentProduction SegmentKind = "production"
	SegmentShipping   SegmentKind = "shipping"
	SegmentHold       SegmentKind = "hold"
	SegmentSell       SegmentKind = "sell"
)

// Segment is a half-open [StartDay, EndDay) window on a batch's timeline.
type Segment struct {
	BatchIndex int         `json:"batch_index"`
	Kind       SegmentKind `json:"kind"`
	StartDay   float64     `json:"start_day"`
	EndDay     float64     `json:"end_day"`
	Revenue    float64     `json:"revenue,omitempty"`
	HoldDays   int         `json:"hold_days,omitempty"`
}

// StockoutInterval is a merged run of consecutive stockout days,
// attributed to the batch whose sales ended closest before it.
type StockoutInterval struct {
	StartDay   int `json:"start_day"`
	EndDay     int `json:"end_day"`
	GapDays    int `json:"gap_days"`
	BatchIndex int `json:"batch_index"`
}

// Annotation marks a chart event, keyed by a stable id in the result map.
type Annotation struct {
	Day        int    `json:"day"`
	BatchIndex int    `json:"batch_index"`
	Label      string `json:"label"`
	Profitable bool   `json:"profitable"`
}

// SimulationResult is the complete output of one run. Series are truncated
// to the display window; KPI day fields are -1 when never reached.
type SimulationResult struct {
	Cash      []float64 `json:"cash"`
	Profit    []float64 `json:"profit"`
	Inventory []float64 `json:"inventory"`

	Production []Segment          `json:"production"`
	Shipping   []Segment          `json:"shipping"`
	Hold       []Segment          `json:"hold"`
	Sell       []Segment          `json:"sell"`
	Stockouts  []StockoutInterval `json:"stockouts"`

	Annotations map[string]Annotation `json:"annotations"`

	MinCash           float64 `json:"min_cash"`
	FinalCash         float64 `json:"final_cash"`
	TotalRevenue      float64 `json:"total_revenue"`
	TotalNetProfit    float64 `json:"total_net_profit"`
	ROI               float64 `json:"roi"`
	Turnover          float64 `json:"turnover"`
	BreakevenDay      int     `json:"breakeven_day"`
	ProfitabilityDay  int     `json:"profitability_day"`
	TotalStockoutDays int     `json:"total_stockout_days"`
}
