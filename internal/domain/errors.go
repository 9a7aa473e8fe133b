package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrEntradaInvalida       = errors.New("entrada inválida")
	ErrCredencialDuplicada   = errors.New("el email ya está registrado")
	ErrCredencialesInvalidas = errors.New("credenciales incorrectas")
	ErrCuentaDeshabilitada   = errors.New("cuenta deshabilitada")
	ErrAccesoDenegado        = errors.New("acceso denegado")
	ErrYaTienePerfilNegocio  = errors.New("el usuario ya tiene un perfil de negocio asociado")
	ErrRUTDuplicado          = errors.New("el RUT ya está registrado en otra cuenta")
	ErrProductoNoEncontrado  = errors.New("producto no encontrado")
	ErrSlugDuplicado         = errors.New("el slug ya está en uso")
	ErrStockInsuficiente     = errors.New("stock insuficiente")
	ErrProveedorInvalido     = errors.New("proveedor de pago inválido")
	ErrEstadoInvalido        = errors.New("transición de estado no permitida")
)
