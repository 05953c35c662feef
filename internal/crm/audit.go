package crm

import "context"

// audit writes a structured audit entry for a mutation. Callers hold s.mu.
func (s *Store) audit(ctx context.Context, entity, entityID, action, details string) {
	fields := map[string]any{
		"entity":    entity,
		"entity_id": entityID,
		"action":    action,
	}
	if details != "" {
		fields["details"] = details
	}
	if s.current != nil {
		fields["actor_id"] = s.current.ID
		fields["actor_role"] = s.current.Role
	}
	s.log.Info(s.log.WithFields(ctx, fields), "audit")
}
