package resource

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// QueryFilters captures the list query parameters. Absent parameters are
// pure no-ops; predicates compose conjunctively over the mandatory tenant
// scope.
type QueryFilters struct {
	Filter      string
	Name        string
	Rate        string
	Sort        string
	WithTrashed bool
	Page        int
	PerPage     int
}

func ParseFilters(q url.Values) QueryFilters {
	f := QueryFilters{
		Filter:      q.Get("filter"),
		Name:        q.Get("name"),
		Rate:        q.Get("rate"),
		Sort:        q.Get("sort"),
		WithTrashed: q.Get("with_trashed") == "true",
		Page:        1,
		PerPage:     defaultPerPage,
	}

	if pageStr := q.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			f.Page = p
		}
	}
	if perPageStr := q.Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 && pp <= maxPerPage {
			f.PerPage = pp
		}
	}

	return f
}

func (f QueryFilters) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// Apply builds the tenant-scoped, filtered query. The company predicate is
// unconditional; everything else is applied only when its parameter is
// non-empty.
func (f QueryFilters) Apply(db *gorm.DB, companyID int64) *gorm.DB {
	q := db
	if f.WithTrashed {
		q = q.Unscoped()
	}
	q = q.Where("company_id = ?", companyID)

	if f.Filter != "" {
		needle := "%" + strings.ToLower(f.Filter) + "%"
		// The rate clause from the legacy filter set is dropped here: the
		// model has no `rate` column, so it matched nothing there either.
		q = q.Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("LOWER(name) LIKE ?", needle).
				Or("LOWER(description) LIKE ?", needle).
				Or("LOWER(custom_value1) LIKE ?", needle).
				Or("LOWER(custom_value2) LIKE ?", needle).
				Or("LOWER(custom_value3) LIKE ?", needle).
				Or("LOWER(custom_value4) LIKE ?", needle),
		)
	}

	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}

	// `rate` is accepted for API compatibility but there is no rate column
	// to match against, so the parameter is inert.

	if order, ok := f.orderClause(); ok {
		q = q.Order(order)
	}

	return q
}

// orderClause parses the `column|direction` sort spec. Malformed specs and
// unrecognized columns yield no ordering, never an error.
func (f QueryFilters) orderClause() (string, bool) {
	parts := strings.Split(f.Sort, "|")
	if len(parts) != 2 {
		return "", false
	}

	dir := "desc"
	if parts[1] == "asc" {
		dir = "asc"
	}

	switch parts[0] {
	case "name", "created_at", "updated_at":
		return parts[0] + " " + dir, true
	case "rate":
		// recognized historically, but not a column; inert
		return "", false
	}
	return "", false
}
