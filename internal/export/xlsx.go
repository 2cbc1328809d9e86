package export

import (
	"fmt"
	"io"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/xuri/excelize/v2"
)

const payoutSheet = "Payouts"

var payoutHeaders = []string{"Date", "Company", "Campaign", "Location", "Hours", "Amount (JOD)"}

// ContentType of the workbooks produced here
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename suggests a download name for a pay period
func Filename(p models.PayPeriod) string {
	return fmt.Sprintf("payouts_%s.xlsx", p.WeekThursISO)
}

// WritePayouts renders a pay period as a one-sheet workbook
func WritePayouts(w io.Writer, resp *models.PayoutsResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(payoutSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SetCellValue(payoutSheet, "A1", resp.Period.Label); err != nil {
		return err
	}
	for i, header := range payoutHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(payoutSheet, cell, header); err != nil {
			return err
		}
	}

	row := 4
	for _, r := range resp.Rows {
		values := []any{r.DateStr, r.Company, r.Campaign, r.Location, r.Hours, r.Amount}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(payoutSheet, cell, v); err != nil {
				return err
			}
		}
		row++
	}

	totalCell := fmt.Sprintf("E%d", row)
	if err := f.SetCellValue(payoutSheet, totalCell, "Total"); err != nil {
		return err
	}
	if err := f.SetCellValue(payoutSheet, fmt.Sprintf("F%d", row), resp.Total); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(payoutSheet, "A3", "F3", style); err != nil {
		return err
	}
	if err := f.SetCellStyle(payoutSheet, totalCell, fmt.Sprintf("F%d", row), style); err != nil {
		return err
	}
	if err := f.SetColWidth(payoutSheet, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(payoutSheet, "B", "D", 24); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
