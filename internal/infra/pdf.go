package infra

// pdf.go — in-memory PDF rendering using go-pdf/fpdf.
// Nothing is written to disk: callers get the bytes and either stream them in
// the HTTP response or attach them to an e-mail.

import (
	"bytes"
	"fmt"
	"time"

	"tesoreria/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// DatosRecibo is what a payment receipt prints.
type DatosRecibo struct {
	Empresa       string
	NumeroRecibo  string
	Fecha         time.Time
	ClienteNombre string
	ClienteCUIT   string
	MetodoPago    string
	Concepto      string
	Monto         decimal.Decimal
	SaldoActual   decimal.Decimal
}

// GenerarReciboPDF renders an A5 receipt for a client payment.
func GenerarReciboPDF(d DatosRecibo) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(d.Empresa), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Recibo de pago", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW/2, 6, tr("Recibo N° "+d.NumeroRecibo), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 6, d.Fecha.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.Line(10, pdf.GetY()+1, pageW-10, pdf.GetY()+1)
	pdf.Ln(4)

	// ── Body ─────────────────────────────────────────────────────────────────
	fila := func(label, valor string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW*0.35, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW*0.65, 6, tr(valor), "", 1, "L", false, 0, "")
	}
	fila("Recibimos de:", d.ClienteNombre)
	if d.ClienteCUIT != "" {
		fila("CUIT:", d.ClienteCUIT)
	}
	fila("Medio de pago:", d.MetodoPago)
	if d.Concepto != "" {
		fila("Concepto:", d.Concepto)
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.5, 8, "IMPORTE:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 8, "$"+d.Monto.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW*0.5, 5, "Saldo de cuenta corriente:", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 5, "$"+d.SaldoActual.StringFixed(2), "", 1, "R", false, 0, "")

	return salida(pdf)
}

// GenerarComprobanteChequePDF renders the voucher of one cheque with its
// state history.
func GenerarComprobanteChequePDF(empresa string, ch *model.Chequera, c *model.Cheque) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(empresa), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	titulo := "Comprobante de cheque propio"
	if c.Tipo == model.ChequeTercero {
		titulo = "Comprobante de cheque de terceros"
	}
	pdf.CellFormat(contentW, 5, tr(titulo+" - "+ch.Nombre), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Cheque data ──────────────────────────────────────────────────────────
	half := contentW / 2
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(half, 7, tr("Cheque N° "+c.Numero), "1", 0, "L", false, 0, "")
	pdf.CellFormat(half, 7, "$"+c.Monto.StringFixed(2), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(half, 6, tr("Emisión: "+c.FechaEmision.Format("02/01/2006")), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 6, "Vencimiento: "+c.FechaVencimiento.Format("02/01/2006"), "", 1, "R", false, 0, "")
	banco := fmt.Sprintf("Banco: %s  Sucursal: %s  Cuenta: %s",
		c.DatosBancarios.Banco, c.DatosBancarios.Sucursal, c.DatosBancarios.NumeroCuenta)
	pdf.CellFormat(contentW, 6, tr(banco), "", 1, "L", false, 0, "")
	if c.Cliente.Nombre != "" {
		pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("A la orden de: %s (%s)", c.Cliente.Nombre, c.Cliente.CUIT)), "", 1, "L", false, 0, "")
	}
	if c.Tipo == model.ChequeTercero {
		pdf.CellFormat(contentW, 6, tr(fmt.Sprintf("Librador: %s (%s)", c.Emisor.Nombre, c.Emisor.CUIT)), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, "Estado actual: "+c.Estado, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── History ──────────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.22, contentW * 0.18, contentW * 0.18, contentW * 0.42}
	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range []string{"Fecha", "Anterior", "Nuevo", "Motivo"} {
		pdf.CellFormat(cols[i], 5, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
	for _, h := range c.Historial {
		anterior := "-"
		if h.EstadoAnterior != nil {
			anterior = *h.EstadoAnterior
		}
		pdf.CellFormat(cols[0], 5, h.Fecha.Format("02/01/2006 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, anterior, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, h.EstadoNuevo, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 5, tr(h.Motivo), "", 1, "L", false, 0, "")
	}

	return salida(pdf)
}

func salida(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}
