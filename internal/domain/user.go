package domain

// Credentials agrupa email y password de los formularios de auth.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisteredUser es la respuesta publica de POST /auth/register.
type RegisteredUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
