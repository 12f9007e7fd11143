// Package export renders a conversation's recommendations as a printable PDF.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"traveltodo/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// Sheet is the content of one recommendations export.
type Sheet struct {
	SessionID       string
	Recommendations []models.Recommendation
	GeneratedAt     time.Time
}

var typeLabels = map[models.RecommendationType]string{
	models.RecommendationHotel:   "Hôtel",
	models.RecommendationFlight:  "Vol",
	models.RecommendationPackage: "Circuit",
}

// RecommendationsPDF renders the sheet and returns the raw document bytes.
func RecommendationsPDF(sheet Sheet) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; accents in French text need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFillColor(0, 82, 147)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "TravelToDo", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, tr("Vos recommandations de voyage"), "", 1, "L", false, 0, "")

	generated := sheet.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	pdf.SetY(35)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(170, 5, tr(fmt.Sprintf("Conversation %s, générée le %s", sheet.SessionID, generated.Format("02/01/2006 15:04"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(sheet.Recommendations) == 0 {
		pdf.SetTextColor(40, 40, 40)
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(170, 6, tr("Aucune recommandation pour cette conversation."), "", "L", false)
	}

	row := func(label, value string) {
		if value == "" {
			return
		}
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(125, 6, tr(value), "", 1, "L", false, 0, "")
	}

	for i, rec := range sheet.Recommendations {
		pdf.SetFillColor(230, 238, 247)
		pdf.SetTextColor(0, 52, 94)
		pdf.SetFont("Helvetica", "B", 11)
		title := fmt.Sprintf("  %d. %s : %s", i+1, typeLabels[rec.Type], rec.Name)
		pdf.CellFormat(170, 8, tr(title), "", 1, "L", true, 0, "")
		pdf.Ln(1)

		row("Prix", priceLabel(rec))
		switch rec.Type {
		case models.RecommendationFlight:
			row("Trajet", rec.Origin+" - "+rec.Destination)
			row("Durée", rec.Duration)
		case models.RecommendationHotel:
			row("Destination", rec.Destination)
			if rec.Stars > 0 {
				row("Catégorie", fmt.Sprintf("%d étoiles", rec.Stars))
			}
			if rec.Rating > 0 {
				row("Note", fmt.Sprintf("%.1f / 5", rec.Rating))
			}
		case models.RecommendationPackage:
			row("Destination", rec.Destination)
			if rec.DurationDays > 0 {
				row("Durée", fmt.Sprintf("%d jours", rec.DurationDays))
			}
		}
		if rec.Source == models.SourceWeb {
			row("Source", rec.SourceLabel)
			row("Lien", rec.SourceURL)
		}
		if desc := strings.TrimSpace(rec.Description); desc != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(60, 60, 60)
			pdf.MultiCell(170, 5, tr(desc), "", "L", false)
		}
		pdf.Ln(4)
	}

	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8, tr("Document indicatif, les prix peuvent évoluer. Ceci n'est pas une confirmation de réservation."), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func priceLabel(rec models.Recommendation) string {
	switch rec.Type {
	case models.RecommendationHotel:
		return fmt.Sprintf("%.0f TND / nuit", rec.Price)
	default:
		return fmt.Sprintf("%.0f TND", rec.Price)
	}
}
