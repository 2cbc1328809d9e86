package payroll

import (
	"fmt"
	"time"

	"github.com/JunoAX/beework-go/internal/models"
)

const isoDate = "2006-01-02"

// PeriodStart returns Thursday 00:00 of the pay period containing now, in
// now's location, moved back weeksBack whole periods. Future periods are
// not reachable: negative weeksBack is treated as 0.
func PeriodStart(now time.Time, weeksBack int) time.Time {
	if weeksBack < 0 {
		weeksBack = 0
	}
	diff := (int(now.Weekday()) - int(time.Thursday) + 7) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d-diff-7*weeksBack, 0, 0, 0, 0, now.Location())
}

// Period is one Thursday-to-Wednesday pay window
type Period struct {
	WeeksBack int
	Start     time.Time
	End       time.Time // exclusive
}

// NewPeriod builds the period weeksBack periods before the one containing now
func NewPeriod(now time.Time, weeksBack int) Period {
	if weeksBack < 0 {
		weeksBack = 0
	}
	start := PeriodStart(now, weeksBack)
	return Period{WeeksBack: weeksBack, Start: start, End: start.AddDate(0, 0, 7)}
}

// Anchor is the weekThursISO key of the period
func (p Period) Anchor() string {
	return p.Start.Format(isoDate)
}

// CandidateKeys are the anchor and its neighbours. Stored anchors can drift
// by a day when written from another timezone.
func (p Period) CandidateKeys() []string {
	return []string{
		p.Start.AddDate(0, 0, -1).Format(isoDate),
		p.Anchor(),
		p.Start.AddDate(0, 0, 1).Format(isoDate),
	}
}

// Label renders "Jan 1, 2026 - Jan 7, 2026 (Thu - Wed)"
func (p Period) Label() string {
	last := p.End.AddDate(0, 0, -1)
	return fmt.Sprintf("%s - %s (Thu - Wed)", p.Start.Format("Jan 2, 2006"), last.Format("Jan 2, 2006"))
}

// Model converts the period for API responses
func (p Period) Model() models.PayPeriod {
	return models.PayPeriod{
		WeeksBack:    p.WeeksBack,
		WeekThursISO: p.Anchor(),
		Start:        p.Start.Format(time.RFC3339),
		End:          p.End.Format(time.RFC3339),
		Label:        p.Label(),
	}
}
