package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when the record has none so ids do not depend
// on database-side defaults.
func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
