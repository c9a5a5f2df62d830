package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Se comparan con errors.Is; las capas externas los traducen a códigos HTTP.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInactiveVariant   = errors.New("variante de producto inactiva")
	ErrInactiveWarehouse = errors.New("bodega inactiva")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrSaleNotCompleted  = errors.New("la venta no está en estado COMPLETED")
	ErrInvalidDiscount   = errors.New("descuento inválido")
	ErrInvalidReturnQty  = errors.New("cantidad a devolver excede lo devolvible")

	// ErrImmutableRecord indica un intento de modificar o borrar un registro
	// append-only (ledger, ventas, facturas, devoluciones). Es un error
	// estructural: proviene del trigger en la base de datos, nunca de una
	// regla de negocio.
	ErrImmutableRecord = errors.New("registro inmutable: las correcciones son hechos nuevos")
)
