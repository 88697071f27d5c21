package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/suseche/inventory-api/internal/apperr"
	"github.com/suseche/inventory-api/internal/model"
	"github.com/suseche/inventory-api/internal/repository"
)

// ReportService builds read-only inventory reports, as JSON or rendered to
// PDF for download.
type ReportService struct {
	products repository.ProductStore
}

func NewReportService(products repository.ProductStore) *ReportService {
	return &ReportService{products: products}
}

// ReportVariant is the variant projection included in report rows.
type ReportVariant struct {
	ID     uint64  `json:"id"`
	Color  string  `json:"color"`
	Size   string  `json:"size"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

// ReportProduct is one report row: a product, its category and its variants.
type ReportProduct struct {
	ID       uint64          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    float64         `json:"price"`
	Variants []ReportVariant `json:"variants"`
}

// InventoryReport is the full catalog valuation. TotalValue sums the prices
// of active variants, falling back to the product price for products without
// variants.
type InventoryReport struct {
	Date          time.Time       `json:"date"`
	TotalProducts int             `json:"totalProducts"`
	TotalValue    float64         `json:"totalValue"`
	Products      []ReportProduct `json:"products"`
}

// BuildInventoryReport assembles the report from the catalog.
func (s *ReportService) BuildInventoryReport(ctx context.Context) (InventoryReport, error) {
	products, variantsByProduct, err := s.products.ListWithVariants(ctx)
	if err != nil {
		return InventoryReport{}, apperr.Internal("report query failed")
	}

	report := InventoryReport{
		Date:          time.Now().UTC(),
		TotalProducts: len(products),
		Products:      make([]ReportProduct, 0, len(products)),
	}
	for _, p := range products {
		variants := variantsByProduct[p.ID]
		if len(variants) == 0 {
			report.TotalValue += p.Price
		} else {
			for _, v := range variants {
				if v.Status == model.StatusActive {
					report.TotalValue += v.Price
				}
			}
		}

		row := ReportProduct{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.CategoryName,
			Price:    p.Price,
			Variants: make([]ReportVariant, 0, len(variants)),
		}
		for _, v := range variants {
			row.Variants = append(row.Variants, ReportVariant{
				ID: v.ID, Color: v.Color, Size: v.Size, Price: v.Price, Status: v.Status,
			})
		}
		report.Products = append(report.Products, row)
	}
	return report, nil
}

// RenderInventoryPDF renders the report as a PDF document.
func (s *ReportService) RenderInventoryPDF(ctx context.Context) ([]byte, error) {
	report, err := s.BuildInventoryReport(ctx)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Inventory Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Inventory Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+report.Date.Format("2006-01-02 15:04 MST"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Products: %d    Total value: %.2f", report.TotalProducts, report.TotalValue), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Table header
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(15, 7, "ID", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 7, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 7, "Variants", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range report.Products {
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", p.ID), "1", 0, "C", false, 0, "")
		pdf.CellFormat(70, 6, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, p.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", p.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", len(p.Variants)), "1", 1, "R", false, 0, "")

		for _, v := range p.Variants {
			detail := fmt.Sprintf("  %s / %s  %.2f  (%s)", v.Color, v.Size, v.Price, v.Status)
			pdf.CellFormat(15, 5, "", "", 0, "", false, 0, "")
			pdf.CellFormat(165, 5, detail, "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.Internal("pdf rendering failed")
	}
	return buf.Bytes(), nil
}
