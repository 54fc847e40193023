// internal/handlers/export.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/davalosm/papeleria-pos/internal/core/ports"
)

// ExportExcel handles GET /api/v1/reports/export/excel.
func (h *ReportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := parseReportParams(r)

	report, err := h.service.Summarize(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to summarize for export",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	fileBytes, err := generateReportExcel(report, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate excel file",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("reporte_ventas_%s.xlsx", time.Now().Format("20060102_150405"))

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(fileBytes)))

	if _, err := w.Write(fileBytes); err != nil {
		h.logger.ErrorContext(ctx, "failed to write excel response",
			slog.String("error", err.Error()))
	}
}

// generateReportExcel builds the workbook: a KPI sheet, the product
// ranking, and the raw ticket list for the selected window.
func generateReportExcel(report *ports.Report, params ports.ReportParams) ([]byte, error) {
	file := xlsx.NewFile()

	if err := addSummarySheet(file, report, params); err != nil {
		return nil, fmt.Errorf("failed to add summary sheet: %w", err)
	}
	if err := addRankingSheet(file, report); err != nil {
		return nil, fmt.Errorf("failed to add ranking sheet: %w", err)
	}
	if err := addSalesSheet(file, report); err != nil {
		return nil, fmt.Errorf("failed to add sales sheet: %w", err)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}

	return buffer.Bytes(), nil
}

func addSummarySheet(file *xlsx.File, report *ports.Report, params ports.ReportParams) error {
	sheet, err := file.AddSheet("Resumen")
	if err != nil {
		return err
	}

	titleRow := sheet.AddRow()
	titleCell := titleRow.AddCell()
	titleCell.Value = "Reporte de Ventas"
	titleCell.GetStyle().Font.Bold = true
	titleCell.GetStyle().Font.Size = 14

	sheet.AddRow()

	window := "todas las fechas"
	if params.From != "" || params.To != "" {
		window = fmt.Sprintf("%s a %s", params.From, params.To)
	}
	addLabelRow(sheet, "Sucursal", params.BranchID)
	addLabelRow(sheet, "Periodo", window)
	addLabelRow(sheet, "Generado", time.Now().Format("2006-01-02 15:04:05"))

	sheet.AddRow()

	addLabelRow(sheet, "Ingresos totales", report.TotalRevenue.StringFixed(2))
	addLabelRow(sheet, "Artículos vendidos", fmt.Sprintf("%d", report.TotalArticles))
	addLabelRow(sheet, "Tickets", fmt.Sprintf("%d", len(report.Sales)))

	sheet.SetColWidth(1, 1, 22)
	sheet.SetColWidth(2, 2, 25)

	return nil
}

func addRankingSheet(file *xlsx.File, report *ports.Report) error {
	sheet, err := file.AddSheet("Ranking de Productos")
	if err != nil {
		return err
	}

	headers := []string{"#", "Producto", "Categoría", "Unidades", "Ingresos"}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for i, rank := range report.Ranking {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().Value = rank.Name
		row.AddCell().Value = string(rank.Category)
		row.AddCell().SetInt(rank.Units)
		row.AddCell().Value = rank.Revenue.StringFixed(2)
	}

	sheet.SetColWidth(2, 2, 35)
	sheet.SetColWidth(3, 3, 15)
	sheet.SetColWidth(5, 5, 12)

	return nil
}

func addSalesSheet(file *xlsx.File, report *ports.Report) error {
	sheet, err := file.AddSheet("Tickets")
	if err != nil {
		return err
	}

	headers := []string{"Ticket", "Fecha", "Hora", "Sucursal", "Método de Pago", "Artículos", "Total"}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, sale := range report.Sales {
		row := sheet.AddRow()
		row.AddCell().Value = sale.ID
		row.AddCell().Value = sale.Date
		row.AddCell().Value = sale.Time
		row.AddCell().Value = sale.BranchName
		row.AddCell().Value = string(sale.Method)
		row.AddCell().SetInt(sale.TotalArticles)
		row.AddCell().Value = sale.Total.StringFixed(2)
	}

	sheet.SetColWidth(1, 1, 12)
	sheet.SetColWidth(4, 4, 20)
	sheet.SetColWidth(5, 5, 16)

	return nil
}

func addLabelRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	labelCell := row.AddCell()
	labelCell.Value = label
	labelCell.GetStyle().Font.Bold = true
	row.AddCell().Value = value
}
