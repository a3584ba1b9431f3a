// Package repository owns persistence for users, packages and contact
// messages.  The sentinel errors below let handlers tell failure kinds
// apart with errors.Is and map them to status codes.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrEmailExists signals that the email is already registered.  The
// unique key on users.email raises it even when a concurrent
// registration passed the handler's pre-check.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidStatus is returned for a status outside the package lifecycle.
var ErrInvalidStatus = errors.New("invalid package status")

// ErrIllegalTransition is returned when a status change skips a stage,
// goes backwards, repeats the current stage or touches a delivered package.
var ErrIllegalTransition = errors.New("illegal status transition")

// ErrIDCollision is returned when every generated mailbox or tracking id
// collided with an existing one.
var ErrIDCollision = errors.New("could not generate a unique identifier")

// MySQL server error numbers the repositories react to.
const (
	errDupEntry     = 1062
	errNoReferenced = 1452
)

// mysqlError unwraps a driver error and reports its number.
func mysqlError(err error) (*mysql.MySQLError, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}
