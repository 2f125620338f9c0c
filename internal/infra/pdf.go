package infra

// pdf.go — order summary generation using go-pdf/fpdf.
// The PDF is attached to the order email sent to the store inbox so that
// whoever prepares the shipment has a printable sheet.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wolftactical/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerarPedidoPDF writes an A4 order summary to dir and returns its path.
func GenerarPedidoPDF(pedido dto.OrderEmailRequest, storeName, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create dir: %w", err)
	}

	fileName := fmt.Sprintf("pedido_%d.pdf", time.Now().UnixNano())
	filePath := filepath.Join(dir, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Resumen de pedido", "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Customer ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Cliente", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, pedido.Nombre+"  <"+pedido.Email+">", "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Telefono: "+pedido.Telefono, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Direccion: "+pedido.Direccion, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.46 // product
	col2 := contentW * 0.20 // color
	col3 := contentW * 0.12 // qty
	col4 := contentW * 0.22 // price

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Color", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col4, 6, "Precio", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range pedido.Items {
		nombre := it.Nombre
		if it.Modelo != "" {
			nombre += " (" + it.Modelo + ")"
		}
		if len(nombre) > 42 {
			nombre = nombre[:41] + "…"
		}
		pdf.CellFormat(col1, 6, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, it.Color, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprintf("x%d", it.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col4, 6, "$"+it.Precio, "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2+col3, 8, "TOTAL:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 8, "$"+pedido.Total, "T", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
