package main

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 5   // Line height in mm
	pdfFontSize   = 9
)

// generatePDF writes the batch results to outputPath as an A4 PDF: one row per
// entry (failures in red with their error beneath) and the summary at the end.
func generatePDF(results []Result, summary Summary, outputPath string) error {
	pdf := buildPDF(results, summary)
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	return nil
}

func buildPDF(results []Result, summary Summary) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	cellWidth := float64(pdfPageWidth - 2*pdfMargin)

	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.MultiCell(cellWidth, pdfLineHeight, "fenum report", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)
	pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
	pdf.Ln(pdfLineHeight / 2)

	// Core fonts are cp1252; translate so non-ASCII names do not come out garbled.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, res := range results {
		pdf.SetFont("Courier", "", pdfFontSize)
		if res.Outcome == OutcomeFailed {
			pdf.SetTextColor(200, 0, 0)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.MultiCell(cellWidth, pdfLineHeight, tr(mappingLine(res)), "", "L", false)

		if res.Outcome == OutcomeFailed && res.Err != nil {
			pdf.SetFont("Courier", "I", pdfFontSize-1)
			pdf.MultiCell(cellWidth, pdfLineHeight, tr("  "+res.Err.Error()), "", "L", false)
		}
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(pdfLineHeight)
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.MultiCell(cellWidth, pdfLineHeight, "--- Summary ---", "", "L", false)
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.MultiCell(cellWidth, pdfLineHeight, summaryLine(summary), "", "L", false)
	return pdf
}
