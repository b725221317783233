package model

import "time"

// User roles
const (
	RoleAdministrator = "administrator"
	RoleDoctor        = "doctor"
	RoleAssistant     = "assistant"
	RolePatient       = "patient"
)

// User represents an account that can sign in
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
