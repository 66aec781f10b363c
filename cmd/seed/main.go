// cmd/seed/main.go — Carga datos de demo para una empresa.
// Uso: SEED_COMPANY_ID=<uuid> go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"tesoreria/internal/config"
	"tesoreria/internal/dto"
	"tesoreria/internal/infra"
	"tesoreria/internal/model"
	"tesoreria/internal/router"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	company := uuid.New()
	if v := os.Getenv("SEED_COMPANY_ID"); v != "" {
		if company, err = uuid.Parse(v); err != nil {
			log.Fatal().Err(err).Msg("SEED_COMPANY_ID is not a uuid")
		}
	}
	actor := uuid.New()
	ctx := context.Background()
	svcs := router.NuevosServicios(cfg, db, nil)

	caja, err := svcs.Cajas.Crear(ctx, company, actor, dto.CrearCajaRequest{
		Nombre:       "Caja principal",
		SaldoInicial: decimal.NewFromInt(50000),
	})
	if errors.Is(err, model.ErrNombreCajaDuplicado) {
		log.Fatal().Str("company_id", company.String()).Msg("la empresa ya tiene datos de demo")
	}
	check(err, "caja")

	_, err = svcs.Cajas.Crear(ctx, company, actor, dto.CrearCajaRequest{Nombre: "Fondo fijo", Moneda: "ARS"})
	check(err, "caja fondo fijo")

	propia, err := svcs.Chequeras.Crear(ctx, company, actor, dto.CrearChequeraRequest{
		Nombre:       "Banco Nación CC",
		Tipo:         model.ChequeraPropia,
		Banco:        "Banco de la Nación Argentina",
		Sucursal:     "Centro",
		NumeroCuenta: "0001-234567/8",
		RangoDesde:   10001,
		RangoHasta:   10050,
	})
	check(err, "chequera propia")

	cartera, err := svcs.Chequeras.Crear(ctx, company, actor, dto.CrearChequeraRequest{
		Nombre: "Cartera de terceros",
		Tipo:   model.ChequeraTerceros,
	})
	check(err, "chequera terceros")

	cuit := "30-71234567-9"
	cliente, err := svcs.Clientes.Crear(ctx, company, actor, dto.CrearClienteRequest{
		Nombre:        "Ferretería del Sur SRL",
		CUIT:          &cuit,
		LimiteCredito: decimal.NewFromInt(200000),
	})
	check(err, "cliente")

	_, err = svcs.Clientes.AgregarFactura(ctx, company, cliente.ID, actor, dto.FacturaRequest{
		Concepto: "Materiales de obra",
		Total:    decimal.NewFromInt(85000),
	})
	check(err, "factura")

	fmt.Printf("✅ Datos de demo cargados para la empresa %s\n", company)
	fmt.Printf("   caja:              %s\n", caja.ID)
	fmt.Printf("   chequera propia:   %s\n", propia.ID)
	fmt.Printf("   chequera terceros: %s\n", cartera.ID)
	fmt.Printf("   cliente:           %s\n", cliente.ID)
}

func check(err error, que string) {
	if err != nil {
		log.Fatal().Err(err).Msgf("seed: %s", que)
	}
}
