package worker

// email_worker.go
// Processes email jobs from QueueEmail.
// Renders the payment receipt PDF in memory and mails it to the client.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tesoreria/internal/dto"
	"tesoreria/internal/infra"

	"github.com/rs/zerolog/log"
)

// Enviador sends one e-mail with an attachment. It is implemented by infra.Mailer.
type Enviador interface {
	Configurado() bool
	EnviarConAdjunto(to, subject, body, fileName string, pdf []byte) error
}

// EmailWorker processes email jobs from QueueEmail.
// Every delivery goes through the SMTP circuit breaker.
type EmailWorker struct {
	mailer  Enviador
	cb      *infra.CircuitBreaker
	empresa string
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer Enviador, cb *infra.CircuitBreaker, empresa string) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb, empresa: empresa}
}

// Process sends the receipt with its PDF attached.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload dto.ReciboEmailJob
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: %v", errPayloadInvalido, err)
	}
	if payload.Destinatario == "" {
		log.Warn().Str("recibo", payload.NumeroRecibo).Msg("email_worker: empty destinatario — skipping")
		return nil
	}
	if !w.mailer.Configurado() {
		log.Warn().Str("recibo", payload.NumeroRecibo).Msg("email_worker: SMTP not configured — skipping")
		return nil
	}

	fecha, err := time.Parse(time.RFC3339, payload.Fecha)
	if err != nil {
		fecha = time.Now()
	}
	pdf, err := infra.GenerarReciboPDF(infra.DatosRecibo{
		Empresa:       w.empresa,
		NumeroRecibo:  payload.NumeroRecibo,
		Fecha:         fecha,
		ClienteNombre: payload.ClienteNombre,
		ClienteCUIT:   payload.ClienteCUIT,
		MetodoPago:    payload.MetodoPago,
		Concepto:      payload.Concepto,
		Monto:         payload.Monto,
		SaldoActual:   payload.SaldoActual,
	})
	if err != nil {
		return fmt.Errorf("%w: pdf: %v", errPayloadInvalido, err)
	}

	subject := fmt.Sprintf("%s - Recibo %s", w.empresa, payload.NumeroRecibo)
	body := fmt.Sprintf("Estimado/a %s:\n\nAdjuntamos el recibo %s por $ %s.\nSaldo de su cuenta corriente: $ %s.\n\n%s",
		payload.ClienteNombre, payload.NumeroRecibo, payload.Monto.StringFixed(2), payload.SaldoActual.StringFixed(2), w.empresa)
	fileName := fmt.Sprintf("recibo-%s.pdf", payload.NumeroRecibo)

	err = w.cb.Execute(func() error {
		return w.mailer.EnviarConAdjunto(payload.Destinatario, subject, body, fileName, pdf)
	})
	if err != nil {
		log.Error().Err(err).Str("to", payload.Destinatario).Str("recibo", payload.NumeroRecibo).
			Msg("email_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.Destinatario).Str("recibo", payload.NumeroRecibo).Msg("email_worker: recibo sent successfully")
	return nil
}
