package postgres

import (
	"errors"

	"github.com/lib/pq"
)

func pqStringArray(ss []string) interface{} {
	return pq.Array(ss)
}

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// isExclusionViolation reports whether err is a postgres exclusion-constraint
// violation (SQLSTATE 23P01).
func isExclusionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23P01"
	}
	return false
}
