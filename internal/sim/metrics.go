package sim

import (
	"fmt"
	"math"

	"restockplan/internal/domain"
)

// assemble integrates the daily deltas into cumulative series, derives
// segments, intervals and KPIs, and produces the immutable result.
func assemble(params *domain.SimulationParams, sched *schedule, state *loopState, horizon int) *domain.SimulationResult {
	res := &domain.SimulationResult{
		Production:       sched.production,
		Shipping:         sched.shipping,
		Annotations:      make(map[string]domain.Annotation, len(params.Batches)),
		TotalRevenue:     state.totalRevenue,
		TotalNetProfit:   state.totalNetProfit,
		BreakevenDay:     -1,
		ProfitabilityDay: -1,
	}

	// Cumulative integration runs over the full internal horizon so
	// final cash and min cash are exact; only the published series is
	// truncated to the display window.
	display := DisplayWindowDays
	if horizon < display {
		display = horizon
	}
	res.Cash = make([]float64, display)
	res.Profit = make([]float64, display)
	res.Inventory = make([]float64, display)

	cash, profit := 0.0, 0.0
	minCash := 0.0
	for d := 0; d < horizon; d++ {
		prevCash, prevProfit := cash, profit
		cash += state.dailyCash[d]
		profit += state.dailyProfit[d]

		if cash < minCash {
			minCash = cash
		}
		if res.BreakevenDay < 0 && d > breakevenGuardDay && prevCash < 0 && cash >= 0 {
			res.BreakevenDay = d
		}
		if res.ProfitabilityDay < 0 && d > breakevenGuardDay && prevProfit < 0 && profit >= 0 {
			res.ProfitabilityDay = d
		}

		if d < display {
			res.Cash[d] = cash
			res.Profit[d] = profit
			res.Inventory[d] = state.dailyInv[d]
		}
	}
	res.FinalCash = cash
	res.MinCash = minCash

	res.Hold, res.Sell = saleSegments(state)
	res.Stockouts = mergeStockouts(state, horizon)
	for _, iv := range res.Stockouts {
		res.TotalStockoutDays += iv.GapDays
	}

	annotateSettlements(params, sched, state, res)

	// Zero exposure means the ratios are undefined; report zero rather
	// than dividing.
	if minCash != 0 {
		res.ROI = math.Abs(state.totalNetProfit / minCash)
		res.Turnover = math.Abs(state.totalRevenue / minCash)
	}

	return res
}

// saleSegments emits one sell segment per batch that sold, plus a hold
// segment for the idle window between arrival and first sale.
func saleSegments(state *loopState) (hold, sell []domain.Segment) {
	hold = make([]domain.Segment, 0, len(state.salePeriods))
	sell = make([]domain.Segment, 0, len(state.salePeriods))

	for i, sp := range state.salePeriods {
		if !sp.started {
			continue
		}
		sell = append(sell, domain.Segment{
			BatchIndex: i,
			Kind:       domain.SegmentSell,
			StartDay:   float64(sp.startDay),
			EndDay:     float64(sp.endDay),
			Revenue:    state.batchRevenue[i],
		})
		if sp.arrived && sp.arrivalDay < sp.startDay {
			hold = append(hold, domain.Segment{
				BatchIndex: i,
				Kind:       domain.SegmentHold,
				StartDay:   float64(sp.arrivalDay),
				EndDay:     float64(sp.startDay),
				HoldDays:   sp.startDay - sp.arrivalDay,
			})
		}
	}
	return hold, sell
}

// mergeStockouts collapses consecutive missed days into half-open
// intervals and attributes each to the batch whose sales ended closest
// before the gap. The attribution is a display heuristic: the most
// recent end-of-sale within the lookback window wins, batch 0 when
// nothing qualifies.
func mergeStockouts(state *loopState, horizon int) []domain.StockoutInterval {
	intervals := []domain.StockoutInterval{}
	if state.firstSaleDay < 0 {
		return intervals
	}

	limit := DisplayWindowDays
	if horizon < limit {
		limit = horizon
	}

	start := -1
	for d := state.firstSaleDay; d <= limit; d++ {
		missed := d < limit && state.dailyMissed[d]
		if missed && start < 0 {
			start = d
		}
		if !missed && start >= 0 {
			intervals = append(intervals, domain.StockoutInterval{
				StartDay:   start,
				EndDay:     d,
				GapDays:    d - start,
				BatchIndex: attributeStockout(state, start),
			})
			start = -1
		}
	}
	return intervals
}

func attributeStockout(state *loopState, gapStart int) int {
	best := 0
	bestEnd := -1
	for i, sp := range state.salePeriods {
		if !sp.started {
			continue
		}
		if sp.endDay > gapStart || gapStart-sp.endDay > stockoutAttributionLookbackDays {
			continue
		}
		if sp.endDay > bestEnd {
			bestEnd = sp.endDay
			best = i
		}
	}
	return best
}

// annotateSettlements estimates when each batch's revenue is fully
// settled and whether the batch covered its landed cost. Keys are
// stable per batch so renderers can diff incrementally.
func annotateSettlements(params *domain.SimulationParams, sched *schedule, state *loopState, res *domain.SimulationResult) {
	for i, b := range params.Batches {
		plan := sched.plans[i]
		sp := state.salePeriods[i]

		day := plan.ArrivalDay + unsoldSettlementDays
		if sp.started {
			day = sp.endDay + SettlementDelayDays
		}

		landedCost := plan.FinalQty * (plan.UnitCost + plan.UnitFreight)
		key := b.ID
		if key == "" {
			key = fmt.Sprintf("batch-%d", i)
		}
		res.Annotations["settlement-"+key] = domain.Annotation{
			Day:        day,
			BatchIndex: i,
			Label:      b.Name,
			Profitable: state.batchRevenue[i] > landedCost,
		}
	}
}
