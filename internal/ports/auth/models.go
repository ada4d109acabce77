package auth

// Claims representa la información extraída del token.
type Claims struct {
	UserID         string
	Email          string
	Name           string
	Role           string
	HealthUnitID   string
	HealthUnitName string

	// SessionID apunta al slot de sesión persistido.
	SessionID string
}
