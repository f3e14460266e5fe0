// Package scenario loads simulation parameter files (YAML) for the CLI.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"restockplan/internal/domain"
)

// Scenario is the on-disk configuration shape (YAML).
type Scenario struct {
	Name      string                    `yaml:"name"`
	SimStart  string                    `yaml:"sim_start"` // YYYY-MM-DD
	MaxDays   int                       `yaml:"max_days"`
	Global    GlobalConfig              `yaml:"global"`
	Logistics map[string]LogisticsEntry `yaml:"logistics"`
	Batches   []BatchConfig             `yaml:"batches"`
	Sales     SalesConfig               `yaml:"sales"`
}

type GlobalConfig struct {
	UnitCost float64     `yaml:"unit_cost"`
	ExchRate float64     `yaml:"exch_rate"`
	Terms    TermsConfig `yaml:"payment_terms"`
}

type TermsConfig struct {
	Deposit float64 `yaml:"deposit"`
	Balance float64 `yaml:"balance"`
}

type LogisticsEntry struct {
	Days  float64 `yaml:"days"`
	Price float64 `yaml:"price"`
}

type BatchConfig struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type"`
	Qty          float64 `yaml:"qty"`
	ExtraPercent float64 `yaml:"extra_percent"`
	Offset       int     `yaml:"offset"`
	ProdDays     int     `yaml:"prod_days"`
}

type FeeConfig struct {
	Commission float64 `yaml:"commission"`
	Tacos      float64 `yaml:"tacos"`
	FBA        float64 `yaml:"fba"`
	Other      float64 `yaml:"other"`
	Storage    float64 `yaml:"storage"`
}

type SalesConfig struct {
	DailySales []float64   `yaml:"daily_sales"`
	Prices     []float64   `yaml:"prices"`
	Fees       []FeeConfig `yaml:"fees"`
}

// Load reads and validates one scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = trimExt(filepath.Base(path))
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// LoadDir loads every .yaml/.yml file in a directory, sorted by name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (s *Scenario) Validate() error {
	if s.SimStart == "" {
		return errors.New("sim_start is required")
	}
	if _, err := time.Parse("2006-01-02", s.SimStart); err != nil {
		return fmt.Errorf("sim_start must be YYYY-MM-DD: %w", err)
	}
	if len(s.Sales.DailySales) > 12 || len(s.Sales.Prices) > 12 || len(s.Sales.Fees) > 12 {
		return errors.New("sales arrays take at most 12 monthly slots")
	}
	for i, b := range s.Batches {
		if _, ok := s.Logistics[b.Type]; !ok {
			return fmt.Errorf("batch %d: unknown shipment type %q", i, b.Type)
		}
	}
	return nil
}

// Params converts the file shape into engine input. Missing monthly
// slots stay at their zero values; missing fee slots stay nil so the
// engine applies its month-0 fallback.
func (s *Scenario) Params() *domain.SimulationParams {
	start, _ := time.Parse("2006-01-02", s.SimStart)

	params := &domain.SimulationParams{
		SimStart: start,
		MaxDays:  s.MaxDays,
		Global: domain.GlobalParams{
			UnitCost: s.Global.UnitCost,
			ExchRate: s.Global.ExchRate,
			PaymentTerms: domain.PaymentTerms{
				DepositPct: s.Global.Terms.Deposit,
				BalancePct: s.Global.Terms.Balance,
			},
		},
		Logistics: make(map[domain.ShipmentType]domain.LogisticsOption, len(s.Logistics)),
	}

	for name, entry := range s.Logistics {
		params.Logistics[domain.ShipmentType(name)] = domain.LogisticsOption{
			Days:  entry.Days,
			Price: entry.Price,
		}
	}

	for _, b := range s.Batches {
		params.Batches = append(params.Batches, domain.Batch{
			ID:           b.ID,
			Name:         b.Name,
			Type:         domain.ShipmentType(b.Type),
			Qty:          b.Qty,
			ExtraPercent: b.ExtraPercent,
			Offset:       b.Offset,
			ProdDays:     b.ProdDays,
		})
	}

	copy(params.Sales.DailySales[:], s.Sales.DailySales)
	copy(params.Sales.Prices[:], s.Sales.Prices)
	for i, fee := range s.Sales.Fees {
		params.Sales.Fees[i] = &domain.FeeSchedule{
			Commission: fee.Commission,
			Tacos:      fee.Tacos,
			FBA:        fee.FBA,
			Other:      fee.Other,
			Storage:    fee.Storage,
		}
	}

	return params
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
