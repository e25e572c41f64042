package models

// PendingRegistration is the payload of an activation token. It is never
// stored server-side; the client holds the token and the code arrives by mail.
type PendingRegistration struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	PasswordDigest string `json:"password_digest"`
	PhoneNumber    int64  `json:"phone_number"`
	ActivationCode string `json:"activation_code"`
}

// SessionRef is the minimal account reference carried by access and refresh
// tokens.
type SessionRef struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role,omitempty"`
}
