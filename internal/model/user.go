package model

import "time"

// Roles stored in users.role.  The column carries a CHECK constraint so
// values outside this set are rejected at the database level.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//
//	ID               – primary key identifier of the user.
//	Email            – unique email address (stored lower-cased).
//	PasswordHash     – bcrypt hashed password.
//	Role             – role name ("user" or "admin").
//	IsActive         – whether the account may authenticate.
//	IsVerified       – whether the email address has been confirmed.
//	VerificationCode – code the user must submit to confirm their email;
//	                   empty once unused or not yet generated.
//	FirstName        – optional given name.
//	LastName         – optional family name.
//	CreatedAt        – timestamp of creation.
//	UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64    // users.id
	Email            string    // users.email
	PasswordHash     string    // users.password_hash
	Role             string    // users.role
	IsActive         bool      // users.is_active
	IsVerified       bool      // users.is_verified
	VerificationCode string    // users.verification_code (nullable)
	FirstName        string    // users.first_name (nullable)
	LastName         string    // users.last_name (nullable)
	CreatedAt        time.Time // users.created_at
	UpdatedAt        time.Time // users.updated_at
}
