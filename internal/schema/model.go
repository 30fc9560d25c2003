// Package schema defines the record types flowing through the pipeline and
// the destination column contract shared by all storage backends.
package schema

import "time"

// Layout is the canonical date format every accepted signup date is
// normalized to.
const Layout = "2006-01-02"

// AcceptedLayouts lists the source date formats the transformer recognizes,
// tried in order. The canonical layout comes first so that normalization is
// idempotent.
var AcceptedLayouts = []string{
	Layout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
}

// Table is the destination table name.
const Table = "users"

// Columns enumerates the destination columns in insert order. The identity
// column is excluded; the database populates it.
var Columns = []string{"name", "email", "email_valid", "email_domain", "signup_date"}

// RawUser is a generated candidate record. SignupDate is an arbitrary textual
// date; Email may be deliberately malformed. Raw records are immutable once
// produced and discarded after transformation.
type RawUser struct {
	Name       string
	Email      string
	SignupDate string
}

// User is a transformed record ready for loading.
//
// EmailDomain is non-nil if and only if EmailValid, and holds the substring
// of Email following the last '@'. SignupDate is nil only when the raw date
// matched none of the accepted layouts.
type User struct {
	Name        string     `db:"name"`
	Email       string     `db:"email"`
	EmailValid  bool       `db:"email_valid"`
	EmailDomain *string    `db:"email_domain"`
	SignupDate  *time.Time `db:"signup_date"`
}

// Row returns the user's values aligned to Columns, suitable for bulk insert.
// Nil pointer fields map to SQL NULL.
func (u User) Row() []any {
	var domain any
	if u.EmailDomain != nil {
		domain = *u.EmailDomain
	}
	var signup any
	if u.SignupDate != nil {
		signup = *u.SignupDate
	}
	return []any{u.Name, u.Email, u.EmailValid, domain, signup}
}
