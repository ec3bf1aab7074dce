package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más el contexto de tenant que emite el servicio de identidad.
// CanWrite resume el permiso de escritura ya resuelto: el núcleo no conoce roles.
type Claims struct {
	jwt.RegisteredClaims
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	CanWrite       bool   `json:"can_write"`
}

// Identity resultado de validar un token.
type Identity struct {
	UserID         string
	OrganizationID string
	CanWrite       bool
}

// Generate genera un token JWT firmado. Lo usan los tests y las herramientas internas;
// en producción los tokens los emite el servicio de identidad con el mismo secreto.
func Generate(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:         id.UserID,
		OrganizationID: id.OrganizationID,
		CanWrite:       id.CanWrite,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o no trae organización.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.OrganizationID == "" {
		return Identity{}, fmt.Errorf("claims sin organization_id")
	}
	return Identity{
		UserID:         claims.UserID,
		OrganizationID: claims.OrganizationID,
		CanWrite:       claims.CanWrite,
	}, nil
}
