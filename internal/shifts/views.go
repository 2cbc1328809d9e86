package shifts

import (
	"sort"
	"time"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/shopspring/decimal"
)

// TaxRate is withheld from the estimated pay shown on a shift
const TaxRate = 0.05

// ForWorker keeps the shifts assigned to userID, preserving order
func ForWorker(list []models.Shift, userID string) []models.Shift {
	out := []models.Shift{}
	for _, s := range list {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the shift with the given id
func Find(list []models.Shift, id string) (models.Shift, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return models.Shift{}, false
}

// OnDate keeps the shifts on a YYYY-MM-DD calendar day, preserving order
func OnDate(list []models.Shift, date string) []models.Shift {
	out := []models.Shift{}
	for _, s := range list {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

// Upcoming returns scheduled shifts dated after today, soonest first
func Upcoming(list []models.Shift, now time.Time) []models.Shift {
	today := now.Format("2006-01-02")
	out := []models.Shift{}
	for _, s := range list {
		if s.Status == models.ShiftScheduled && s.Date > today {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// Window returns the scheduled start and end when both are set
func Window(s models.Shift) (start, end time.Time, ok bool) {
	start, okStart := store.AsTime(s.StartTime)
	end, okEnd := store.AsTime(s.EndTime)
	return start, end, okStart && okEnd
}

// EffectiveStatus prefers the live punch state over the stored status
func EffectiveStatus(s models.Shift, state models.PunchState) string {
	switch state {
	case models.PunchCompleted:
		return models.ShiftCompleted
	case models.PunchedIn:
		return models.ShiftInProgress
	}
	if s.Status == "" {
		return models.ShiftScheduled
	}
	return s.Status
}

// ScheduledHours is the planned length of the shift, 0 when unscheduled
func ScheduledHours(s models.Shift) float64 {
	start, end, ok := Window(s)
	if !ok || !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// EstimatedPay is wage times scheduled hours, less withholding, in JOD
func EstimatedPay(s models.Shift) decimal.Decimal {
	base := decimal.NewFromFloat(s.HourlyWage).Mul(decimal.NewFromFloat(ScheduledHours(s)))
	net := base.Sub(base.Mul(decimal.NewFromFloat(TaxRate)))
	if net.IsNegative() {
		return decimal.Zero
	}
	return net.Round(2)
}
