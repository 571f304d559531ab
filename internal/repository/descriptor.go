package repository

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// Columns every soft-deletable table has.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnDeletedAt = "deleted_at"
)

var (
	// ErrNotFound is returned when no row matches, including rows hidden by soft delete.
	ErrNotFound = errors.New("record not found")

	// ErrNotSluggable is returned by slug lookups on entities without a slug column.
	ErrNotSluggable = errors.New("entity is not slug addressable")

	// ErrUnknownColumn is returned when a filter, sort or change names a column the
	// descriptor does not allow.
	ErrUnknownColumn = errors.New("column not allowed")
)

// Descriptor declares the shape of one soft-deletable table.
type Descriptor struct {
	// Entity is the singular display name used in messages, e.g. "Service".
	Entity string
	Table  string

	// Columns is the full projection read back after every statement.
	Columns []string

	Writable   []string
	Filterable []string
	Searchable []string
	Sortable   []string

	// SlugColumn is empty for entities that are not slug addressable.
	SlugColumn string
	SlugSource string

	// UniqueLive lists columns backed by a partial unique index over live rows.
	UniqueLive []string

	// SummaryColumns is the projection used by listings that do not need the full row.
	SummaryColumns []string

	// Defaults mirrors the schema defaults for the memory repository.
	Defaults map[string]any
}

func (d Descriptor) Sluggable() bool {
	return d.SlugColumn != ""
}

func (d Descriptor) checkFilter(column string) error {
	if column == ColumnID || (d.Sluggable() && column == d.SlugColumn) || slices.Contains(d.Filterable, column) {
		return nil
	}
	return fmt.Errorf("%w: filter %s.%s", ErrUnknownColumn, d.Table, column)
}

func (d Descriptor) checkSort(column string) error {
	if column == ColumnCreatedAt || column == ColumnUpdatedAt || slices.Contains(d.Sortable, column) {
		return nil
	}
	return fmt.Errorf("%w: sort %s.%s", ErrUnknownColumn, d.Table, column)
}

func (d Descriptor) checkChanges(changes Changes) error {
	for column := range changes {
		if !slices.Contains(d.Writable, column) {
			return fmt.Errorf("%w: write %s.%s", ErrUnknownColumn, d.Table, column)
		}
	}
	return nil
}

// Changes maps column names to new values. Absent columns are left untouched.
type Changes map[string]any

func (c Changes) Has(column string) bool {
	_, ok := c[column]
	return ok
}

// String returns the value of column when it holds a non-empty string.
func (c Changes) String(column string) (string, bool) {
	switch v := c[column].(type) {
	case string:
		return v, v != ""
	case *string:
		if v != nil {
			return *v, *v != ""
		}
	}
	return "", false
}

// columns returns the keys in a stable order so generated SQL is deterministic.
func (c Changes) columns() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Filters are equality predicates on filterable columns. Nil values are ignored.
type Filters map[string]any

func (f Filters) columns() []string {
	keys := make([]string, 0, len(f))
	for k, v := range f {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery is one page of live records.
type ListQuery struct {
	Page    int
	Limit   int
	Filters Filters
	Search  string
}

// Normalized clamps pagination into range. Out-of-range values are rejected at the
// request layer, this only protects the arithmetic.
func (q ListQuery) Normalized() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q ListQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

// Sort orders FindAllLive results.
type Sort struct {
	Column string
	Desc   bool
}

// FindQuery selects every live row matching Filters. When Columns is set only those
// columns are read, the remaining fields of T keep their zero value.
type FindQuery struct {
	Filters Filters
	Sort    Sort
	Columns []string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination computes TotalPages as ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
