// Package export writes spreadsheet exports of contract data.
package export

import (
	"bytes"
	"fmt"
	"time"

	appleasing "github.com/hirepurchase/backend/internal/application/leasing"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	scheduleSheet  = "Schedule"
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
	// built-in "#,##0.00"
	moneyNumFmt = 4
)

var scheduleHeaders = []string{"No.", "Due Date", "Amount Due", "Amount Paid", "Outstanding", "Status", "Paid At"}

// XLSXScheduleExporter writes installment schedules as XLSX workbooks
type XLSXScheduleExporter struct {
	// Location is used for paid-at timestamps; UTC when nil
	Location *time.Location
}

// NewXLSXScheduleExporter creates an exporter printing timestamps in loc
func NewXLSXScheduleExporter(loc *time.Location) *XLSXScheduleExporter {
	return &XLSXScheduleExporter{Location: loc}
}

type sheetWriter struct {
	f          *excelize.File
	moneyStyle int
	boldStyle  int
	err        error
}

func (w *sheetWriter) set(col, row int, value any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellValue(scheduleSheet, cell, value)
}

func (w *sheetWriter) money(col, row int, d decimal.Decimal) {
	v, _ := d.Round(2).Float64()
	w.set(col, row, v)
	w.style(col, row, col, row, w.moneyStyle)
}

func (w *sheetWriter) style(col1, row1, col2, row2, style int) {
	if w.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(col1, row1)
	to, _ := excelize.CoordinatesToCellName(col2, row2)
	w.err = w.f.SetCellStyle(scheduleSheet, from, to, style)
}

// ExportSchedule renders doc to an XLSX file
func (e *XLSXScheduleExporter) ExportSchedule(doc appleasing.ScheduleDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}
	w := &sheetWriter{f: f, moneyStyle: moneyStyle, boldStyle: boldStyle}

	w.set(1, 1, "Installment Schedule")
	w.style(1, 1, 1, 1, boldStyle)

	row := 2
	text := func(label, value string) {
		w.set(1, row, label)
		w.set(2, row, value)
		row++
	}
	amount := func(label string, d decimal.Decimal) {
		w.set(1, row, label)
		w.money(2, row, d)
		row++
	}
	text("Contract Number", doc.ContractNumber)
	text("Customer", doc.CustomerName)
	text("Asset", doc.AssetName)
	text("Contract Type", doc.ContractType)
	amount("Total Price", doc.TotalPrice)
	amount("Down Payment", doc.DownPayment)
	amount("Principal", doc.PrincipalAmount)
	text("Interest Rate (%)", doc.InterestRate.String())
	amount("Installment Amount", doc.InstallmentAmount)
	if doc.BalloonPayment.IsPositive() {
		amount("Balloon Payment", doc.BalloonPayment)
	}
	text("Start Date", formatDate(doc.StartDate))
	text("End Date", formatDate(doc.EndDate))

	row++
	headerRow := row
	for i, h := range scheduleHeaders {
		w.set(i+1, headerRow, h)
	}
	w.style(1, headerRow, len(scheduleHeaders), headerRow, boldStyle)

	totalDue, totalPaid := decimal.Zero, decimal.Zero
	for _, r := range doc.Rows {
		row++
		w.set(1, row, r.Number)
		w.set(2, row, formatDate(r.DueDate))
		w.money(3, row, r.AmountDue)
		w.money(4, row, r.AmountPaid)
		w.money(5, row, decimal.Max(r.AmountDue.Sub(r.AmountPaid), decimal.Zero))
		w.set(6, row, r.Status)
		if r.PaidAt != nil {
			w.set(7, row, e.formatDateTime(*r.PaidAt))
		}
		totalDue = totalDue.Add(r.AmountDue)
		totalPaid = totalPaid.Add(r.AmountPaid)
	}

	row++
	w.set(1, row, "Total")
	w.style(1, row, 1, row, boldStyle)
	w.money(3, row, totalDue)
	w.money(4, row, totalPaid)
	w.money(5, row, decimal.Max(totalDue.Sub(totalPaid), decimal.Zero))
	if w.err != nil {
		return nil, fmt.Errorf("write schedule: %w", w.err)
	}

	if err := f.SetColWidth(scheduleSheet, "A", "A", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(scheduleSheet, "B", "G", 16); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *XLSXScheduleExporter) formatDateTime(t time.Time) string {
	if e.Location != nil {
		t = t.In(e.Location)
	}
	return t.Format(dateTimeLayout)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

var _ appleasing.ScheduleExporter = (*XLSXScheduleExporter)(nil)
