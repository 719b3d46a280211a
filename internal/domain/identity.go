package domain

import "time"

// Principal is the authenticated caller as decoded from the bearer token.
// TenantID and Region are empty when the token does not carry them.
type Principal struct {
	ID       string
	Email    string
	Role     string
	TenantID string
	Region   string
}

// UserProfile is the slice of the users table the resolver needs.
type UserProfile struct {
	TenantID string  `db:"tenant_id" json:"tenant_id"`
	Regional *string `db:"regional" json:"regional,omitempty"`
}

type Identity struct {
	TenantID string
	Region   string
}

type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCoordenador Role = "COORDENADOR"
	RoleOperador    Role = "OPERADOR"
)

type User struct {
	ID        string    `db:"id" json:"id"`
	Nome      string    `db:"nome" json:"nome"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	Regional  *string   `db:"regional" json:"regional,omitempty"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	Ativo     bool      `db:"ativo" json:"ativo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type RegisterUserRequest struct {
	Nome     string `json:"nome" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=ADMIN COORDENADOR OPERADOR"`
	Regional string `json:"regional" validate:"required,notblank"`
}

type SetActiveRequest struct {
	Ativo *bool `json:"ativo" validate:"required"`
}
