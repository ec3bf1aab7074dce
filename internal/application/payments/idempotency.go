package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/Gestionale-api/internal/application/dto"
	"github.com/jhoicas/Gestionale-api/internal/domain"
)

// storedResult lo que se guarda bajo la clave: huella de la petición y respuesta.
type storedResult struct {
	RequestHash string                 `json:"request_hash"`
	Response    *dto.ReconcileResponse `json:"response"`
}

// requestHash huella SHA-256 del cuerpo normalizado de la petición.
func requestHash(in dto.ReconcileRequest) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// ReconcileIdempotent envuelve ReconcilePayment con la clave del cliente. Sin almacén o sin clave
// se comporta igual que ReconcilePayment. replayed indica que la respuesta viene de un intento anterior.
// Reutilizar la clave con otra petición es un error de validación y no repite nada.
func (uc *UseCase) ReconcileIdempotent(ctx context.Context, actor domain.Actor, key string, in dto.ReconcileRequest) (resp *dto.ReconcileResponse, replayed bool, err error) {
	if uc.idempotency == nil || key == "" {
		resp, err = uc.ReconcilePayment(ctx, actor, in)
		return resp, false, err
	}
	if err := actor.RequireWrite(); err != nil {
		return nil, false, err
	}
	hash, err := requestHash(in)
	if err != nil {
		return nil, false, err
	}
	scoped := fmt.Sprintf("reconcile:%s:%s", actor.OrganizationID, key)

	stored, found, err := uc.idempotency.Reserve(ctx, scoped, uc.ttl)
	if errors.Is(err, ErrInFlight) {
		return nil, false, fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	if err != nil {
		return nil, false, err
	}
	if found {
		var prev storedResult
		if err := json.Unmarshal(stored, &prev); err != nil || prev.Response == nil {
			return nil, false, fmt.Errorf("idempotency: resultado ilegible para %s: %w", key, errors.Join(err, domain.ErrConflict))
		}
		if prev.RequestHash != hash {
			uc.log.Warn().Str("organization_id", actor.OrganizationID).Str("key", key).Msg("Idempotency-Key reutilizada con otra petición")
			return nil, false, domain.Invalid("Idempotency-Key", "ya se usó con una petición distinta")
		}
		return prev.Response, true, nil
	}

	resp, err = uc.ReconcilePayment(ctx, actor, in)
	if err != nil {
		if relErr := uc.idempotency.Release(ctx, scoped); relErr != nil {
			uc.log.Warn().Err(relErr).Str("key", key).Msg("no se pudo liberar la clave de idempotencia")
		}
		return nil, false, err
	}
	raw, err := json.Marshal(storedResult{RequestHash: hash, Response: resp})
	if err != nil {
		return nil, false, err
	}
	if err := uc.idempotency.Complete(ctx, scoped, raw, uc.ttl); err != nil {
		// la escritura ya está confirmada: se devuelve el resultado aunque no quede guardado
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el resultado idempotente")
	}
	return resp, false, nil
}
