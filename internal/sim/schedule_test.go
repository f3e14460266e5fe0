package sim

import (
	"testing"
	"time"

	"restockplan/internal/domain"
)

func scheduleParams() *domain.SimulationParams {
	return &domain.SimulationParams{
		SimStart: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		Batches: []domain.Batch{
			{ID: "b1", Type: domain.ShipmentAir, Qty: 1000, ExtraPercent: 5, Offset: 3, ProdDays: 12},
		},
		Global: domain.GlobalParams{
			UnitCost: 2,
			ExchRate: 1,
			PaymentTerms: domain.PaymentTerms{
				DepositPct: 30,
				BalancePct: 70,
			},
		},
		Logistics: map[domain.ShipmentType]domain.LogisticsOption{
			domain.ShipmentAir: {Days: 8.5, Price: 0.5},
		},
		Sales: flatSales(10, 10),
	}
}

func TestBuildSchedule_EventDaysAndAmounts(t *testing.T) {
	sched := buildSchedule(scheduleParams(), DefaultHorizonDays)

	// finalQty = round(1000 * 1.05) = 1050, costProd = 2100,
	// t0 = 3, t1 = 15, t2 = 23.5 -> freight/arrival day 23.
	if len(sched.events) != 3 {
		t.Fatalf("expected 3 cash events, got %d", len(sched.events))
	}

	byType := map[eventType]financialEvent{}
	for _, ev := range sched.events {
		byType[ev.Type] = ev
	}

	if ev := byType[eventDeposit]; ev.Day != 3 || !almostEqual(ev.Amount, -630) {
		t.Errorf("unexpected deposit event: %+v", ev)
	}
	if ev := byType[eventBalance]; ev.Day != 15 || !almostEqual(ev.Amount, -1470) {
		t.Errorf("unexpected balance event: %+v", ev)
	}
	if ev := byType[eventFreight]; ev.Day != 23 || !almostEqual(ev.Amount, -525) {
		t.Errorf("unexpected freight event: %+v", ev)
	}

	arrivals := sched.arrivals[23]
	if len(arrivals) != 1 {
		t.Fatalf("expected 1 arrival on day 23, got %d", len(arrivals))
	}
	arr := arrivals[0]
	if arr.Qty != 1050 || arr.UnitCost != 2 || arr.UnitFreight != 0.5 {
		t.Errorf("unexpected arrival event: %+v", arr)
	}
}

func TestBuildSchedule_SegmentBounds(t *testing.T) {
	sched := buildSchedule(scheduleParams(), DefaultHorizonDays)

	prod := sched.production[0]
	if prod.StartDay != 3 || prod.EndDay != 15 {
		t.Errorf("expected production [3,15), got [%v,%v)", prod.StartDay, prod.EndDay)
	}
	ship := sched.shipping[0]
	if ship.StartDay != 15 || ship.EndDay != 23.5 {
		t.Errorf("expected shipping [15,23.5), got [%v,%v)", ship.StartDay, ship.EndDay)
	}
}

func TestBuildSchedule_DropsEventsBeyondHorizon(t *testing.T) {
	params := scheduleParams()
	sched := buildSchedule(params, 10)

	// Only the deposit (day 3) fits in a 10-day horizon; the balance
	// (day 15) and freight (day 23) are dropped, as is the arrival.
	if len(sched.events) != 1 || sched.events[0].Type != eventDeposit {
		t.Fatalf("expected only the deposit event, got %+v", sched.events)
	}
	if len(sched.arrivals) != 0 {
		t.Errorf("expected no arrivals within horizon, got %+v", sched.arrivals)
	}
	// The plan still records the out-of-horizon arrival day for
	// settlement annotations.
	if sched.plans[0].ArrivalDay != 23 {
		t.Errorf("expected planned arrival day 23, got %d", sched.plans[0].ArrivalDay)
	}
}

func TestBuildSchedule_ZeroTermsFireNoEvents(t *testing.T) {
	params := scheduleParams()
	params.Global.PaymentTerms = domain.PaymentTerms{}

	sched := buildSchedule(params, DefaultHorizonDays)
	for _, ev := range sched.events {
		if ev.Type == eventDeposit || ev.Type == eventBalance {
			t.Errorf("zero terms must not fire %s events", ev.Type)
		}
	}
}

func TestBuildSchedule_DegenerateSameDayEvents(t *testing.T) {
	params := scheduleParams()
	params.Batches[0].Offset = 0
	params.Batches[0].ProdDays = 0
	params.Logistics[domain.ShipmentAir] = domain.LogisticsOption{Days: 0, Price: 0.5}

	sched := buildSchedule(params, DefaultHorizonDays)

	// Zero production and transit collapse all three events onto day 0.
	// They fire independently; the day loop sums them, no dedup.
	if len(sched.events) != 3 {
		t.Fatalf("expected 3 same-day events, got %d", len(sched.events))
	}
	total := 0.0
	for _, ev := range sched.events {
		if ev.Day != 0 {
			t.Errorf("expected all events on day 0, got %+v", ev)
		}
		total += ev.Amount
	}
	// deposit -630, balance -1470, freight -525
	if !almostEqual(total, -2625) {
		t.Errorf("expected summed day-0 outflow -2625, got %v", total)
	}
}
