package models

import "time"

// Session is a server-stored refresh session. Session validity is always a
// database lookup, never in-process memory, so revocation holds across
// instances. Deleting the row revokes the session.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
