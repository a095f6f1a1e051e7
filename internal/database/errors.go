package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// IsUniqueConstraintErr reports whether err is a sqlite UNIQUE constraint
// violation. The circulation repositories rely on unique indexes as the
// authoritative guard against concurrent duplicate inserts, so they need to
// recognize the violation and translate it into a domain error.
func IsUniqueConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyConstraintErr reports whether err is a sqlite FOREIGN KEY
// constraint violation, the storage-level backstop behind the category
// delete guard.
func IsForeignKeyConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
