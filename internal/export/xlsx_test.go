package export

import (
	"bytes"
	"testing"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/xuri/excelize/v2"
)

func TestWritePayouts(t *testing.T) {
	resp := &models.PayoutsResponse{
		Period: models.PayPeriod{WeekThursISO: "2026-03-05", Label: "Mar 5, 2026 - Mar 11, 2026 (Thu - Wed)"},
		Rows: []models.PayoutRow{
			{ID: "a", Company: "Acme", Location: "Mall", DateStr: "2026-03-05", Hours: 3, Amount: 15},
			{ID: "b", Company: "Beta", DateStr: "2026-03-06", Hours: 2, Amount: 7.5},
		},
		Total: 22.5,
	}

	var buf bytes.Buffer
	if err := WritePayouts(&buf, resp); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != payoutSheet {
		t.Fatalf("unexpected sheets: %v", sheets)
	}
	checks := map[string]string{
		"A1": resp.Period.Label,
		"B3": "Company",
		"B4": "Acme",
		"F4": "15",
		"A5": "2026-03-06",
		"E6": "Total",
		"F6": "22.5",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(payoutSheet, cell)
		if err != nil || got != want {
			t.Fatalf("%s = %q (%v), want %q", cell, got, err, want)
		}
	}

	for _, cell := range []string{"A3", "F3", "E6", "F6"} {
		id, err := f.GetCellStyle(payoutSheet, cell)
		if err != nil {
			t.Fatalf("style of %s: %v", cell, err)
		}
		style, err := f.GetStyle(id)
		if err != nil || style.Font == nil || !style.Font.Bold {
			t.Fatalf("%s should be bold: %+v %v", cell, style, err)
		}
	}
	if width, err := f.GetColWidth(payoutSheet, "C"); err != nil || width != 24 {
		t.Fatalf("column C width = %v (%v), want 24", width, err)
	}

	if Filename(resp.Period) != "payouts_2026-03-05.xlsx" {
		t.Fatalf("unexpected filename %s", Filename(resp.Period))
	}
}

func TestWritePayoutsEmptyPeriod(t *testing.T) {
	resp := &models.PayoutsResponse{Period: models.PayPeriod{Label: "Jan 1, 2026 - Jan 7, 2026 (Thu - Wed)"}}

	var buf bytes.Buffer
	if err := WritePayouts(&buf, resp); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue(payoutSheet, "E4"); got != "Total" {
		t.Fatalf("total row should follow the header, got %q", got)
	}
	if got, _ := f.GetCellValue(payoutSheet, "F4"); got != "0" {
		t.Fatalf("empty period total = %q, want 0", got)
	}
}
