// Package model defines the data structures used throughout the application.
package model

// User represents a registered account.
//
// Password is stored verbatim and compared verbatim at login; it is tagged
// json:"-" so it can never leak through an API response.
type User struct {
	ID       int64  `json:"id"       db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email"    db:"email"`
	Password string `json:"-"        db:"password"`
	IsAdmin  bool   `json:"is_admin" db:"es_admin"`
}
