package payroll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/shopspring/decimal"
)

// Currency of every amount in the system
const Currency = "JOD"

// ShiftLookup fetches the shift a weekly aggregate refers to
type ShiftLookup interface {
	Get(ctx context.Context, collection, id string) (*store.Document, error)
}

// Aggregator turns timesheet documents into payout rows
type Aggregator struct {
	Shifts   ShiftLookup // optional
	Location *time.Location
}

// Rows builds the payout rows for a set of timesheet documents. A document
// seen twice contributes once. Breakdown entries win over aggregate fields.
func (a *Aggregator) Rows(ctx context.Context, docs []store.Document) []models.PayoutRow {
	out := []models.PayoutRow{}
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if seen[doc.ID] {
			continue
		}
		seen[doc.ID] = true

		if entries := breakdown(doc.Data); len(entries) > 0 {
			out = append(out, a.breakdownRows(doc, entries)...)
			continue
		}
		out = append(out, a.aggregateRow(ctx, doc))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateStr < out[j].DateStr
	})
	return out
}

func (a *Aggregator) breakdownRows(doc store.Document, entries []map[string]any) []models.PayoutRow {
	var out []models.PayoutRow
	for i, b := range entries {
		hours, _ := store.FirstNumber(b, "totalHours", "hours")
		amount := rowAmount(b, hours, doc.Data)
		if hours <= 0 && amount.Sign() <= 0 {
			continue
		}

		company := firstOr("Shift", b, "companyName")
		if company == "Shift" {
			company = firstOr("Shift", doc.Data, "companyName")
		}
		campaign, ok := store.FirstString(b, "campaignName", "campaign")
		if !ok {
			campaign, _ = store.FirstString(doc.Data, "campaign")
		}
		location, ok := store.FirstString(b, "locationName", "location")
		if !ok {
			location, _ = store.FirstString(doc.Data, "locationName", "location")
		}

		out = append(out, models.PayoutRow{
			ID:       fmt.Sprintf("%s_%d", doc.ID, i),
			Company:  company,
			Campaign: campaign,
			Location: location,
			DateStr:  a.dateOf(b, "date", "start", "eventStart", "end", "eventEnd"),
			Hours:    round2(hours),
			Amount:   toFloat(amount),
		})
	}
	return out
}

func (a *Aggregator) aggregateRow(ctx context.Context, doc store.Document) models.PayoutRow {
	v := doc.Data
	hours, _ := store.FirstNumber(v, "totalHours", "hours")
	company := firstOr("Week Total", v, "companyName")
	campaign, _ := store.FirstString(v, "campaign", "campaignName")
	location, _ := store.FirstString(v, "locationName", "location")

	if shiftID, ok := store.FirstString(v, "shiftId"); ok && a.Shifts != nil {
		s, err := a.Shifts.Get(ctx, store.Shifts, shiftID)
		switch {
		case err == nil:
			if name, ok := store.FirstString(s.Data, "companyName", "eventName"); ok {
				company = name
			}
			if c, ok := store.FirstString(s.Data, "campaign", "campaignName"); ok {
				campaign = c
			}
			if location == "" {
				location, _ = store.FirstString(s.Data, "locationName")
			}
		case !errors.Is(err, store.ErrNotFound):
			log.Printf("⚠️  Timesheet %s: shift %s lookup failed: %v", doc.ID, shiftID, err)
		}
	}

	return models.PayoutRow{
		ID:       doc.ID,
		Company:  company,
		Campaign: campaign,
		Location: location,
		DateStr:  a.dateOf(v, "start", "eventStart"),
		Hours:    round2(hours),
		Amount:   toFloat(rowAmount(v, hours, nil)),
	}
}

// rowAmount applies the pay precedence: explicit total, hours times rate,
// alternate pay field, zero. The rate may come from the enclosing document.
func rowAmount(row map[string]any, hours float64, parent map[string]any) decimal.Decimal {
	if total, ok := store.FirstNumber(row, "totalPayJOD"); ok {
		return money(total)
	}
	rate, ok := store.FirstNumber(row, "rateJOD")
	if !ok && parent != nil {
		rate, ok = store.FirstNumber(parent, "rateJOD")
	}
	if ok {
		return roundMoney(decimal.NewFromFloat(hours).Mul(decimal.NewFromFloat(rate)))
	}
	if alt, ok := store.FirstNumber(row, "payJOD", "amountJOD"); ok {
		return money(alt)
	}
	return decimal.Zero
}

func (a *Aggregator) dateOf(data map[string]any, keys ...string) string {
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	for _, k := range keys {
		if t, ok := store.AsTime(data[k]); ok {
			return t.In(loc).Format(isoDate)
		}
	}
	return ""
}

func breakdown(data map[string]any) []map[string]any {
	list, _ := data["breakdown"].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func firstOr(fallback string, data map[string]any, keys ...string) string {
	if s, ok := store.FirstString(data, keys...); ok {
		return s
	}
	return fallback
}

// money rounds half-up to 2 decimals; negative amounts are clamped to 0
func money(f float64) decimal.Decimal {
	return roundMoney(decimal.NewFromFloat(f))
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	d = d.Round(2)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func round2(f float64) float64 {
	return toFloat(money(f))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Total sums row amounts without floating drift
func Total(rows []models.PayoutRow) float64 {
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(decimal.NewFromFloat(r.Amount))
	}
	return toFloat(sum.Round(2))
}

// FormatJOD renders an amount as "JOD 42.50"
func FormatJOD(amount float64) string {
	return Currency + " " + decimal.NewFromFloat(amount).StringFixed(2)
}
