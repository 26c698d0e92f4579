package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// duplicateKey maps unique-index violations to ErrDuplicate. Dialects that
// translate errors report gorm.ErrDuplicatedKey; the rest are matched on the
// driver message.
func duplicateKey(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := err.Error()
	for _, s := range []string{"UNIQUE constraint failed", "Duplicate entry", "duplicate key"} {
		if strings.Contains(msg, s) {
			return ErrDuplicate
		}
	}
	return err
}
