package sim

import (
	"sort"

	"restockplan/internal/domain"
)

// inventoryLot is one FIFO queue entry, created when its batch arrives.
type inventoryLot struct {
	batchIndex   int
	qtyRemaining float64
	unitCost     float64
	unitFreight  float64
	arrivalDay   int
}

// salePeriod tracks the first and last day a batch's units were sold.
type salePeriod struct {
	started    bool
	startDay   int
	endDay     int
	arrived    bool
	arrivalDay int
}

// loopState is everything the day loop accumulates for the
// post-processing pass. All of it is allocated fresh per run.
type loopState struct {
	dailyInv    []float64
	dailyCash   []float64
	dailyProfit []float64
	dailyMissed []bool

	firstSaleDay int // -1 until the first unit is sold
	salePeriods  []salePeriod
	batchRevenue []float64

	totalRevenue   float64
	totalNetProfit float64
	endingInv      float64
}

// Run executes the full simulation. It is a pure function of params:
// identical input yields deep-equal output, and concurrent calls with
// different params need no coordination. A nil result (no error) means
// there was nothing to simulate: the batch list was empty.
func Run(params *domain.SimulationParams) *domain.SimulationResult {
	if params == nil || len(params.Batches) == 0 {
		return nil
	}

	horizon := DefaultHorizonDays
	if params.MaxDays > 0 {
		horizon = params.MaxDays
	}

	sched := buildSchedule(params, horizon)
	state := runDays(params, sched, horizon)
	return assemble(params, sched, state, horizon)
}

func runDays(params *domain.SimulationParams, sched *schedule, horizon int) *loopState {
	state := &loopState{
		dailyInv:     make([]float64, horizon),
		dailyCash:    make([]float64, horizon),
		dailyProfit:  make([]float64, horizon),
		dailyMissed:  make([]bool, horizon),
		firstSaleDay: -1,
		salePeriods:  make([]salePeriod, len(params.Batches)),
		batchRevenue: make([]float64, len(params.Batches)),
	}

	for _, ev := range sched.events {
		state.dailyCash[ev.Day] += ev.Amount
	}

	queue := make([]inventoryLot, 0, len(params.Batches))
	currentInv := 0.0
	exchRate := params.Global.ExchRate

	for d := 0; d < horizon; d++ {
		// Arrival ingestion. The re-sort after every push is what keeps
		// consumption FIFO even when batches arrive out of input order.
		if arrivals, ok := sched.arrivals[d]; ok {
			for _, arr := range arrivals {
				queue = append(queue, inventoryLot{
					batchIndex:   arr.BatchIndex,
					qtyRemaining: arr.Qty,
					unitCost:     arr.UnitCost,
					unitFreight:  arr.UnitFreight,
					arrivalDay:   arr.ArrivalDay,
				})
				currentInv += arr.Qty
				sp := &state.salePeriods[arr.BatchIndex]
				sp.arrived = true
				sp.arrivalDay = d
			}
			sort.SliceStable(queue, func(i, j int) bool {
				if queue[i].arrivalDay != queue[j].arrivalDay {
					return queue[i].arrivalDay < queue[j].arrivalDay
				}
				return queue[i].batchIndex < queue[j].batchIndex
			})
		}

		// Demand and fees come from the calendar month of the simulated
		// date, not the elapsed month index.
		month := int(params.SimStart.AddDate(0, 0, d).Month()) - 1
		demand := params.Sales.DailySales[month]
		price := params.Sales.Prices[month]
		fees := params.Sales.Fees[month]
		if fees == nil {
			fees = params.Sales.Fees[0]
		}
		if fees == nil {
			fees = &domain.FeeSchedule{}
		}

		commission := price * fees.Commission
		ads := price * fees.Tacos
		fixedFees := fees.FBA + fees.Other + fees.Storage
		unitRecall := (price - commission - ads - fixedFees) * exchRate

		remaining := demand
		for remaining > 0 && len(queue) > 0 {
			lot := &queue[0]
			take := remaining
			if lot.qtyRemaining < take {
				take = lot.qtyRemaining
			}

			revenue := take * unitRecall
			cogs := take * (lot.unitCost + lot.unitFreight)
			profit := revenue - cogs

			state.totalRevenue += revenue
			state.totalNetProfit += profit
			state.dailyProfit[d] += profit
			state.batchRevenue[lot.batchIndex] += revenue

			// Revenue settles with a fixed delay; cash past the horizon
			// is dropped like any other event.
			if settleDay := d + SettlementDelayDays; settleDay < horizon {
				state.dailyCash[settleDay] += revenue
			}

			if state.firstSaleDay < 0 {
				state.firstSaleDay = d
			}
			sp := &state.salePeriods[lot.batchIndex]
			if !sp.started {
				sp.started = true
				sp.startDay = d
			}
			sp.endDay = d + 1

			lot.qtyRemaining -= take
			currentInv -= take
			remaining -= take
			if lot.qtyRemaining <= 0 {
				queue = queue[1:]
			}
		}

		// A day with unmet demand only counts as a stockout once sales
		// have actually begun; pre-launch days never qualify.
		if state.firstSaleDay >= 0 && d >= state.firstSaleDay && remaining > stockoutEpsilon {
			state.dailyMissed[d] = true
		}

		state.dailyInv[d] = currentInv
	}

	state.endingInv = currentInv
	return state
}
