package sim

import (
	"math"

	"restockplan/internal/domain"
)

// Engine-level policy constants. These are fixed behavior, not
// configuration; they are named here so tests can reference them.
const (
	// DefaultHorizonDays is the internal simulation horizon when the
	// params carry no MaxDays cap.
	DefaultHorizonDays = 400

	// DisplayWindowDays bounds the public time series and the stockout
	// scan, regardless of the internal horizon.
	DisplayWindowDays = 365

	// SettlementDelayDays is the lag between a sale and its revenue
	// appearing as cash-in.
	SettlementDelayDays = 14

	// stockoutAttributionLookbackDays is how far back from a stockout
	// interval a batch's end-of-sale may sit and still claim the
	// interval. Display heuristic only, not a ledger attribution.
	stockoutAttributionLookbackDays = 5

	// breakevenGuardDay suppresses spurious zero crossings before any
	// capital has been deployed.
	breakevenGuardDay = 10

	// unsoldSettlementDays approximates the settlement day for a batch
	// that arrived but never sold.
	unsoldSettlementDays = 60

	// stockoutEpsilon absorbs floating-point residue when deciding
	// whether demand went unmet.
	stockoutEpsilon = 0.01
)

type eventType string

const (
	eventDeposit eventType = "deposit"
	eventBalance eventType = "balance"
	eventFreight eventType = "freight"
)

// financialEvent is one scheduled cash delta. Amount is signed:
// negative for cash out, positive for cash in. Revenue settlements are
// the fourth cash stream; the day loop applies them straight to the
// daily accumulator instead of materializing events.
type financialEvent struct {
	Day        int
	Type       eventType
	Amount     float64
	BatchIndex int
}

// arrivalEvent is what lands on the arrival day: one FIFO lot's worth
// of inventory plus its cost basis.
type arrivalEvent struct {
	BatchIndex  int
	Qty         float64
	UnitCost    float64
	UnitFreight float64
	ArrivalDay  int
}

// batchPlan keeps the resolved timeline of one batch for the
// post-processing pass, whether or not it arrives within the horizon.
type batchPlan struct {
	FinalQty    float64
	UnitCost    float64
	UnitFreight float64
	ArrivalDay  int
}

type schedule struct {
	events   []financialEvent
	arrivals map[int][]arrivalEvent
	plans    []batchPlan

	production []domain.Segment
	shipping   []domain.Segment
}

// buildSchedule converts each batch into absolute day offsets and cash
// events. Events past the horizon are dropped without error.
func buildSchedule(params *domain.SimulationParams, horizon int) *schedule {
	s := &schedule{
		arrivals:   make(map[int][]arrivalEvent),
		plans:      make([]batchPlan, 0, len(params.Batches)),
		production: make([]domain.Segment, 0, len(params.Batches)),
		shipping:   make([]domain.Segment, 0, len(params.Batches)),
	}

	terms := params.Global.PaymentTerms

	for i, b := range params.Batches {
		logi := params.Logistics[b.Type]

		finalQty := math.Round(b.Qty * (1 + b.ExtraPercent/100))
		t0 := float64(b.Offset)
		t1 := t0 + float64(b.ProdDays)
		t2 := t1 + logi.Days
		arrivalDay := int(math.Floor(t2))

		costProd := finalQty * params.Global.UnitCost
		costFreight := finalQty * logi.Price

		s.addEvent(financialEvent{
			Day:        b.Offset,
			Type:       eventDeposit,
			Amount:     -costProd * terms.DepositPct / 100,
			BatchIndex: i,
		}, horizon)
		s.addEvent(financialEvent{
			Day:        b.Offset + b.ProdDays,
			Type:       eventBalance,
			Amount:     -costProd * terms.BalancePct / 100,
			BatchIndex: i,
		}, horizon)
		s.addEvent(financialEvent{
			Day:        arrivalDay,
			Type:       eventFreight,
			Amount:     -costFreight,
			BatchIndex: i,
		}, horizon)

		if arrivalDay >= 0 && arrivalDay < horizon {
			s.arrivals[arrivalDay] = append(s.arrivals[arrivalDay], arrivalEvent{
				BatchIndex:  i,
				Qty:         finalQty,
				UnitCost:    params.Global.UnitCost,
				UnitFreight: logi.Price,
				ArrivalDay:  arrivalDay,
			})
		}

		s.plans = append(s.plans, batchPlan{
			FinalQty:    finalQty,
			UnitCost:    params.Global.UnitCost,
			UnitFreight: logi.Price,
			ArrivalDay:  arrivalDay,
		})

		s.production = append(s.production, domain.Segment{
			BatchIndex: i,
			Kind:       domain.SegmentProduction,
			StartDay:   t0,
			EndDay:     t1,
		})
		s.shipping = append(s.shipping, domain.Segment{
			BatchIndex: i,
			Kind:       domain.SegmentShipping,
			StartDay:   t1,
			EndDay:     t2,
		})
	}

	return s
}

func (s *schedule) addEvent(ev financialEvent, horizon int) {
	if ev.Day < 0 || ev.Day >= horizon {
		return
	}
	// Zero payment terms produce no cash event at all.
	if ev.Amount == 0 {
		return
	}
	s.events = append(s.events, ev)
}
