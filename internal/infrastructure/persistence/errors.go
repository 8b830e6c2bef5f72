package persistence

import (
	"errors"
	"fmt"

	"github.com/hirepurchase/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors to domain errors and wraps the rest with
// the failed operation.
func translateError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// paginate applies the filter's ORDER BY, OFFSET and LIMIT
func paginate(q *gorm.DB, f shared.Filter, table string, allowed map[string]bool, defaultField string) *gorm.DB {
	f = f.Normalize()
	field := ValidateSortField(f.OrderBy, allowed, defaultField)
	return q.Order(table + "." + field + " " + ValidateSortOrder(f.OrderDir)).
		Offset(f.Offset()).
		Limit(f.PageSize)
}
