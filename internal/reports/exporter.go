package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Exporter renders a band's schedule in a downloadable format.
type Exporter interface {
	Export(format, bandName string, rows []ScheduleRow) (data []byte, filename, contentType string, err error)
}

type exporter struct{}

func NewExporter() Exporter {
	return &exporter{}
}

var scheduleHeaders = []string{"title", "type", "status", "starts_at", "ends_at", "venue", "notes"}

func (e *exporter) Export(format, bandName string, rows []ScheduleRow) ([]byte, string, string, error) {
	switch format {
	case "csv":
		return e.exportCSV(bandName, rows)
	case "xlsx":
		return e.exportExcel(bandName, rows)
	case "pdf":
		return e.exportPDF(bandName, rows)
	default:
		return nil, "", "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// exportCSV exports the schedule as CSV.
func (e *exporter) exportCSV(bandName string, rows []ScheduleRow) ([]byte, string, string, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(scheduleHeaders); err != nil {
		return nil, "", "", err
	}

	for _, r := range rows {
		record := []string{
			r.Title,
			r.Type,
			r.Status,
			r.StartsAt.Format("2006-01-02 15:04"),
			r.EndsAt.Format("2006-01-02 15:04"),
			r.VenueName,
			r.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, "", "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), "schedule.csv", "text/csv", nil
}

// exportExcel exports the schedule as Excel.
func (e *exporter) exportExcel(bandName string, rows []ScheduleRow) ([]byte, string, string, error) {
	f := excelize.NewFile()
	sheet := "Schedule"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", "", err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range scheduleHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", "", err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		row := rIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Title)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Type)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.StartsAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.EndsAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.VenueName)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Notes)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), "schedule.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
}

// exportPDF exports the schedule as PDF.
func (e *exporter) exportPDF(bandName string, rows []ScheduleRow) ([]byte, string, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, fmt.Sprintf("%s - Schedule", bandName))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	headers := []string{"Title", "Type", "Status", "Starts", "Ends", "Venue", "Notes"}
	widths := []float64{60, 25, 25, 35, 35, 45, 50}

	// Print headers
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	// Print data rows
	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(widths[0], 6, r.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, r.Type, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, r.Status, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, r.StartsAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 6, r.EndsAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 6, r.VenueName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[6], 6, r.Notes, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", "", err
	}

	return buf.Bytes(), "schedule.pdf", "application/pdf", nil
}
