package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Operator string

const (
	EQ  Operator = "="
	NE  Operator = "<>"
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
)

// Condition expresses a single comparison that cannot be represented by a
// struct equality filter.
type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// QuerySortBy describes ordering. Allow whitelists sortable columns so
// caller-supplied sort fields never reach the SQL string unchecked.
type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

type QueryOptions struct {
	Sort       *QuerySortBy
	Conditions []Condition
	Locking    bool
	Limit      int
	Offset     int
}

type QueryOption func(*QueryOptions)

func WithSortBy(sort QuerySortBy) QueryOption {
	return func(o *QueryOptions) { o.Sort = &sort }
}

func ApplyOperator(cond Condition) QueryOption {
	return func(o *QueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

func WithLockingUpdate() QueryOption {
	return func(o *QueryOptions) { o.Locking = true }
}

func WithLimit(limit int) QueryOption {
	return func(o *QueryOptions) { o.Limit = limit }
}

func WithOffset(offset int) QueryOption {
	return func(o *QueryOptions) { o.Offset = offset }
}

// LockingUpdate is a gorm scope enabling SELECT ... FOR UPDATE.
func LockingUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Apply folds the options into the gorm query.
func Apply(db *gorm.DB, opts ...QueryOption) *gorm.DB {
	var o QueryOptions
	for _, opt := range opts {
		opt(&o)
	}

	for _, cond := range o.Conditions {
		db = db.Where(fmt.Sprintf("%s %s ?", cond.Field, cond.Operator), cond.Value)
	}

	if o.Sort != nil {
		sortBy := o.Sort.SortBy
		if sortBy == "" {
			sortBy = "created_at"
		}
		if o.Sort.Allow == nil || o.Sort.Allow[sortBy] {
			order := "ASC"
			if strings.EqualFold(o.Sort.OrderBy, "desc") {
				order = "DESC"
			}
			db = db.Order(fmt.Sprintf("%s %s", sortBy, order))
		}
	}

	if o.Locking {
		db = db.Scopes(LockingUpdate)
	}

	if o.Limit > 0 {
		db = db.Limit(o.Limit)
	}
	if o.Offset > 0 {
		db = db.Offset(o.Offset)
	}

	return db
}
