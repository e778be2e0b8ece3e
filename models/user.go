package models

type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
}

// Credentials is the typed payload of the register and login forms.
type Credentials struct {
	Username string
	Password string
}
