package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/JunoAX/beework-go/internal/store"
	"github.com/JunoAX/beework-go/internal/store/memory"
)

func TestPeriodStartFromWednesday(t *testing.T) {
	wed := time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC) // Wednesday

	got := PeriodStart(wed, 0)
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("PeriodStart(wed, 0) = %v, want %v", got, want)
	}

	got = PeriodStart(wed, 1)
	want = time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("PeriodStart(wed, 1) = %v, want %v", got, want)
	}
}

func TestPeriodStartOnThursdayIsSameDay(t *testing.T) {
	thu := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	if got := PeriodStart(thu, 0); !got.Equal(thu) {
		t.Fatalf("PeriodStart(thu) = %v, want %v", got, thu)
	}
	if got := PeriodStart(thu, -3); !got.Equal(thu) {
		t.Fatalf("negative weeksBack must not reach the future, got %v", got)
	}
}

func TestPeriodKeysAndLabel(t *testing.T) {
	p := NewPeriod(time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC), 0) // Saturday
	if p.Anchor() != "2026-01-01" {
		t.Fatalf("anchor = %s, want 2026-01-01", p.Anchor())
	}
	keys := p.CandidateKeys()
	if len(keys) != 3 || keys[0] != "2025-12-31" || keys[1] != "2026-01-01" || keys[2] != "2026-01-02" {
		t.Fatalf("unexpected candidate keys: %v", keys)
	}
	if p.Label() != "Jan 1, 2026 - Jan 7, 2026 (Thu - Wed)" {
		t.Fatalf("unexpected label %q", p.Label())
	}
	if !p.End.Equal(p.Start.AddDate(0, 0, 7)) {
		t.Fatalf("period bounds are wrong: %v - %v", p.Start, p.End)
	}
}

func TestRowsFromBreakdown(t *testing.T) {
	agg := &Aggregator{Location: time.UTC}
	rows := agg.Rows(context.Background(), []store.Document{{
		ID: "ts1",
		Data: map[string]any{
			"companyName": "Acme",
			"breakdown": []any{
				map[string]any{"totalHours": 3, "rateJOD": 5, "date": "2026-03-06T10:00:00Z", "locationName": "Mall"},
				map[string]any{"hours": 0, "rateJOD": 5},
				map[string]any{"hours": 2, "payJOD": 7.005, "date": "2026-03-05T10:00:00Z", "companyName": "Beta"},
			},
		},
	}})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	// sorted by date
	if rows[0].ID != "ts1_2" || rows[1].ID != "ts1_0" {
		t.Fatalf("unexpected row order: %s, %s", rows[0].ID, rows[1].ID)
	}
	if rows[1].Hours != 3 || rows[1].Amount != 15 || rows[1].Company != "Acme" || rows[1].Location != "Mall" {
		t.Fatalf("unexpected breakdown row: %+v", rows[1])
	}
	if rows[0].Amount != 7.01 || rows[0].Company != "Beta" || rows[0].DateStr != "2026-03-05" {
		t.Fatalf("unexpected alternate-pay row: %+v", rows[0])
	}
}

func TestRowsFromAggregate(t *testing.T) {
	st := memory.New()
	st.Seed(store.Shifts, "s1", map[string]any{"eventName": "Expo", "campaign": "Spring", "locationName": "Hall 3"})

	agg := &Aggregator{Shifts: st, Location: time.UTC}
	rows := agg.Rows(context.Background(), []store.Document{
		{ID: "w1", Data: map[string]any{"totalHours": 10, "totalPayJOD": 42.5}},
		{ID: "w2", Data: map[string]any{"totalHours": 4, "rateJOD": 3.25, "shiftId": "s1"}},
		{ID: "w1", Data: map[string]any{"totalHours": 10, "totalPayJOD": 42.5}},
	})

	if len(rows) != 2 {
		t.Fatalf("expected duplicates to be dropped, got %d rows", len(rows))
	}
	byID := map[string]float64{}
	for _, r := range rows {
		byID[r.ID] = r.Amount
	}
	if byID["w1"] != 42.5 || byID["w2"] != 13 {
		t.Fatalf("unexpected amounts: %v", byID)
	}
	for _, r := range rows {
		if r.ID == "w1" && r.Company != "Week Total" {
			t.Fatalf("expected default company, got %q", r.Company)
		}
		if r.ID == "w2" && (r.Company != "Expo" || r.Campaign != "Spring" || r.Location != "Hall 3") {
			t.Fatalf("expected enrichment from shift, got %+v", r)
		}
	}
	if got := FormatJOD(Total(rows)); got != "JOD 55.50" {
		t.Fatalf("total = %s, want JOD 55.50", got)
	}
}

func TestPayoutsQueriesNeighbouringAnchors(t *testing.T) {
	st := memory.New()
	st.Seed(store.Timesheets, "a", map[string]any{"employeeId": "u1", "weekThursISO": "2026-03-04", "totalHours": 1, "totalPayJOD": 5})
	st.Seed(store.Timesheets, "b", map[string]any{"employeeId": "u1", "weekThursISO": "2026-03-05", "totalHours": 2, "totalPayJOD": 10})
	st.Seed(store.Timesheets, "c", map[string]any{"employeeId": "u2", "weekThursISO": "2026-03-05", "totalHours": 8, "totalPayJOD": 40})
	st.Seed(store.Timesheets, "d", map[string]any{"employeeId": "u1", "weekThursISO": "2026-02-26", "totalHours": 8, "totalPayJOD": 40})

	svc := NewService(st, time.UTC).WithClock(func() time.Time {
		return time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	})
	resp, err := svc.Payouts(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("payouts: %v", err)
	}
	if len(resp.Rows) != 2 || resp.Total != 15 || resp.TotalDisplay != "JOD 15.00" {
		t.Fatalf("unexpected payouts: %+v", resp)
	}
	if resp.CanGoNext || resp.Period.WeekThursISO != "2026-03-05" {
		t.Fatalf("unexpected period: %+v", resp.Period)
	}

	resp, err = svc.Payouts(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("payouts: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0].ID != "d" || !resp.CanGoNext {
		t.Fatalf("unexpected previous period: %+v", resp)
	}
}

type equalityOnly struct {
	*memory.Store
	queries int
}

func (e *equalityOnly) Query(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	e.queries++
	for _, f := range filters {
		if f.Op != "==" {
			return nil, store.ErrUnsupportedQuery
		}
	}
	return e.Store.Query(ctx, collection, filters...)
}

func TestPayoutsFallsBackToEqualityQueries(t *testing.T) {
	mem := memory.New()
	mem.Seed(store.Timesheets, "b", map[string]any{"employeeId": "u1", "weekThursISO": "2026-03-05", "totalHours": 2, "totalPayJOD": 10})
	st := &equalityOnly{Store: mem}

	svc := NewService(st, time.UTC).WithClock(func() time.Time {
		return time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	})
	resp, err := svc.Payouts(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("payouts: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Total != 10 {
		t.Fatalf("unexpected payouts: %+v", resp)
	}
	if st.queries != 4 {
		t.Fatalf("expected 1 rejected + 3 equality queries, got %d", st.queries)
	}
}
