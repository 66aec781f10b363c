package model

import "errors"

// Domain errors raised by the ledger aggregates. Messages are user-facing and are
// returned verbatim by the HTTP layer, so keep them in Spanish.
var (
	ErrMontoInvalido         = errors.New("El monto debe ser mayor a cero")
	ErrConflictoConcurrencia = errors.New("El registro fue modificado por otra operación, reintente")

	// Contador
	ErrContadorNoEncontrado  = errors.New("No existe un contador para ese tipo de documento")
	ErrTipoDocumentoInvalido = errors.New("Tipo de documento inválido")

	// Caja
	ErrCajaNoEncontrada            = errors.New("Caja no encontrada")
	ErrCajaInactiva                = errors.New("La caja está inactiva")
	ErrCajaRelacionadaRequerida    = errors.New("Las transferencias requieren una caja destino")
	ErrCajaRelacionadaInvalida     = errors.New("La caja destino debe ser distinta de la caja origen")
	ErrCajaRelacionadaNoEncontrada = errors.New("Caja destino no encontrada o inactiva")
	ErrMonedaDistinta              = errors.New("Las cajas de una transferencia deben tener la misma moneda")
	ErrFondosInsuficientes         = errors.New("Saldo insuficiente en la caja")
	ErrTipoMovimientoInvalido      = errors.New("Tipo de movimiento inválido")
	ErrSaldoDistintoDeCero         = errors.New("No se puede eliminar una caja con saldo distinto de cero")
	ErrNombreCajaDuplicado         = errors.New("Ya existe una caja activa con ese nombre")
	ErrSaldoInicialInvalido        = errors.New("El saldo inicial no puede ser negativo")

	// Chequera
	ErrChequeraNoEncontrada    = errors.New("Chequera no encontrada")
	ErrChequeraInactiva        = errors.New("La chequera está inactiva")
	ErrTipoChequeraIncorrecto  = errors.New("Operación no permitida para este tipo de chequera")
	ErrRangoAgotado            = errors.New("No hay más cheques disponibles")
	ErrRangoInvalido           = errors.New("El rango de cheques es inválido")
	ErrChequeDuplicado         = errors.New("Ya existe un cheque con ese número y CUIT de emisor")
	ErrChequeNoEncontrado      = errors.New("Cheque no encontrado")
	ErrEstadoChequeInvalido    = errors.New("Estado de cheque inválido")
	ErrNombreChequeraDuplicado = errors.New("Ya existe una chequera activa con ese nombre")

	// Cliente
	ErrClienteNoEncontrado = errors.New("Cliente no encontrado")
	ErrClienteInactivo     = errors.New("El cliente está inactivo")

	// Acreditaciones (cliente → caja)
	ErrAcreditacionNoEncontrada   = errors.New("Acreditación no encontrada")
	ErrAcreditacionAgotada        = errors.New("Acreditación sin reintentos disponibles")
	ErrAcreditacionNoReintentable = errors.New("Solo se pueden reintentar acreditaciones fallidas")
)
