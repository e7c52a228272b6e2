package events

import "context"

// IsParticipant dice si userID está en el roster (o es el creador).
// Lo usa chat para no permitir mensajes de gente que no va al evento,
// sin generar ciclos de imports entre módulos.
func (s *Service) IsParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	e, err := s.GetByID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if e.CreatorID == userID {
		return true, nil
	}
	return e.HasParticipant(userID), nil
}
