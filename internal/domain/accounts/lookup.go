package accounts

import "context"

// VetName expone el nombre para mostrar de un usuario.
// Lo consumen citas y registros médicos sin importar este paquete completo.
func (s *Service) VetName(ctx context.Context, vetID string) (string, error) {
	u, err := s.GetByID(ctx, vetID)
	if err != nil {
		return "", err
	}
	return u.Nombre(), nil
}
