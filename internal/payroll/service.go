package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
)

// Service loads a worker's timesheets for a pay period
type Service struct {
	store store.Store
	agg   *Aggregator
	now   func() time.Time
}

// NewService creates a payroll service. Periods are computed in loc.
func NewService(st store.Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store: st,
		agg:   &Aggregator{Shifts: st, Location: loc},
		now:   func() time.Time { return time.Now().In(loc) },
	}
}

// WithClock replaces the clock, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Period returns the pay period weeksBack periods ago
func (s *Service) Period(weeksBack int) Period {
	return NewPeriod(s.now(), weeksBack)
}

// Payouts returns the worker's rows and total for a pay period
func (s *Service) Payouts(ctx context.Context, workerID string, weeksBack int) (*models.PayoutsResponse, error) {
	period := s.Period(weeksBack)
	docs, err := s.timesheets(ctx, workerID, period.CandidateKeys())
	if err != nil {
		return nil, err
	}

	rows := s.agg.Rows(ctx, docs)
	total := Total(rows)
	return &models.PayoutsResponse{
		Period:       period.Model(),
		Rows:         rows,
		Total:        total,
		TotalDisplay: FormatJOD(total),
		Currency:     Currency,
		CanGoNext:    period.WeeksBack > 0,
	}, nil
}

// timesheets issues one membership query, or one equality query per key when
// the backend cannot combine them
func (s *Service) timesheets(ctx context.Context, workerID string, keys []string) ([]store.Document, error) {
	docs, err := s.store.Query(ctx, store.Timesheets,
		store.Eq("employeeId", workerID),
		store.In("weekThursISO", keys),
	)
	if err == nil {
		return docs, nil
	}
	if !errors.Is(err, store.ErrUnsupportedQuery) {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}

	var all []store.Document
	for _, k := range keys {
		part, err := s.store.Query(ctx, store.Timesheets,
			store.Eq("employeeId", workerID),
			store.Eq("weekThursISO", k),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to query timesheets for %s: %w", k, err)
		}
		all = append(all, part...)
	}
	return all, nil
}
