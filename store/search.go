package store

import (
	"strings"

	"gestion-peluqueria-backend/billing"

	"gorm.io/gorm"
)

// ListLimit caps registry listings
const ListLimit = 200

// Search matches term, case-insensitively, as a substring of any of columns.
// An empty term matches everything.
func Search(term string, columns ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		conds := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Equals filters col = v
func Equals(col string, v any) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(col+" = ?", v)
	}
}

// OrderBy sorts by the given SQL order clause
func OrderBy(order string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	}
}

// Limit caps the number of rows
func Limit(n int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(n)
	}
}

// Between filters col by an inclusive date range. Open bounds are skipped. Bounds are
// compared in UTC, the zone every timestamp is written in.
func Between(col string, dr *billing.DateRange) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if dr == nil {
			return db
		}
		if dr.From != nil {
			db = db.Where(col+" >= ?", dr.From.UTC())
		}
		if dr.To != nil {
			db = db.Where(col+" <= ?", dr.To.UTC())
		}
		return db
	}
}
