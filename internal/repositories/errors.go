package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Mongo-backed repositories when a document does
// not exist. PostgreSQL repositories surface gorm.ErrRecordNotFound instead;
// IsNotFound covers both.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err means the requested record does not exist,
// regardless of which store produced it.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
