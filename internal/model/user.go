package model

// User represents an application user record as stored in the
// `users` table.  The json tags are omitted here because these structs
// are used internally by the repository and auth layers; handlers
// respond with UserView instead, so PasswordHash can never be
// serialized by accident.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique, case-sensitive login name.
//  PasswordHash – bcrypt hashed password.
//  Email        – optional address, nil when the column is NULL.
//  FullName     – optional display name, nil when the column is NULL.
type User struct {
	ID           uint64  // users.id
	Username     string  // users.username
	PasswordHash string  // users.password_hash
	Email        *string // users.email (nullable)
	FullName     *string // users.full_name (nullable)
}

// NewUser carries the fields needed to provision an account.  Password is
// plaintext and only lives until the repository hashes it.
type NewUser struct {
	Username string
	Password string
	Email    *string
	FullName *string
}

// UserView is the outbound shape of a user.  Every string field has been
// HTML-escaped exactly once; ID is passed through untouched.  Absent
// optional fields serialize as null.
type UserView struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	FullName *string `json:"fullName"`
}
