package payments

import (
	"context"
	"errors"
	"time"
)

// ErrInFlight la misma clave de idempotencia está siendo procesada por otra petición.
var ErrInFlight = errors.New("petición con la misma Idempotency-Key en curso")

// IdempotencyStore guarda el resultado de conciliaciones completadas para repetirlo ante reintentos.
// Nunca guarda saldos: solo respuestas de escrituras ya confirmadas.
type IdempotencyStore interface {
	// Reserve marca la clave como en curso. Si ya hay resultado lo devuelve con found=true;
	// si está en curso devuelve ErrInFlight.
	Reserve(ctx context.Context, key string, ttl time.Duration) (result []byte, found bool, err error)
	// Complete guarda el resultado de la clave reservada.
	Complete(ctx context.Context, key string, result []byte, ttl time.Duration) error
	// Release libera una reserva cuya operación falló, para que el cliente pueda reintentar.
	Release(ctx context.Context, key string) error
}
