package domain

// Actor contexto de tenant/autorización resuelto por el colaborador de autenticación.
// Se pasa explícitamente a cada operación del núcleo; el núcleo nunca lee estado ambiental.
type Actor struct {
	OrganizationID string
	UserID         string
	CanWrite       bool
}

// RequireRead valida que el actor tenga organización.
func (a Actor) RequireRead() error {
	if a.OrganizationID == "" {
		return ErrForbidden
	}
	return nil
}

// RequireWrite valida organización y permiso de escritura.
func (a Actor) RequireWrite() error {
	if a.OrganizationID == "" || !a.CanWrite {
		return ErrForbidden
	}
	return nil
}
