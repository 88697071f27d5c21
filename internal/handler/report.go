package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/suseche/inventory-api/internal/service"
)

// ReportHandler serves the inventory valuation report.
type ReportHandler struct {
	Reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// Inventory returns the report as JSON.
func (h *ReportHandler) Inventory(c echo.Context) error {
	ctx, cancel := boundCtx(c)
	defer cancel()

	report, err := h.Reports.BuildInventoryReport(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// InventoryPDF returns the report rendered as a downloadable PDF.
func (h *ReportHandler) InventoryPDF(c echo.Context) error {
	ctx, cancel := boundCtx(c)
	defer cancel()

	pdf, err := h.Reports.RenderInventoryPDF(ctx)
	if err != nil {
		return err
	}
	name := "inventory-report-" + time.Now().UTC().Format("2006-01-02") + ".pdf"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
