package user

// User is the identity resolved by the backend for the current session.
// The client keeps a read-only copy of it for the session lifetime.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsZero reports whether u carries no identity.
func (u User) IsZero() bool {
	return u.ID == 0 && u.Email == ""
}
