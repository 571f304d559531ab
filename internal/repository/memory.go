package repository

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemoryRepository keeps records in process with the same observable behavior as
// PostgresRepository, including the partial unique indexes on live rows. It backs the
// service and handler tests.
type MemoryRepository[T model.Record] struct {
	mu     sync.RWMutex
	desc   Descriptor
	fields map[string][]int
	rows   []*T
	last   time.Time
}

func NewMemoryRepository[T model.Record](desc Descriptor) *MemoryRepository[T] {
	fields := make(map[string][]int)
	for _, f := range reflect.VisibleFields(reflect.TypeFor[T]()) {
		if f.Anonymous {
			continue
		}
		if tag := f.Tag.Get("db"); tag != "" && tag != "-" {
			fields[tag] = f.Index
		}
	}

	return &MemoryRepository[T]{
		desc:   desc,
		fields: fields,
	}
}

func (r *MemoryRepository[T]) Descriptor() Descriptor {
	return r.desc
}

func (r *MemoryRepository[T]) ListLive(_ context.Context, q ListQuery) (*Page[T], error) {
	q = q.Normalized()

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched, err := r.matchLive(q.Filters, q.Search)
	if err != nil {
		return nil, err
	}
	r.sortRows(matched, ColumnCreatedAt, true)

	total := int64(len(matched))
	start := min(q.offset(), len(matched))
	end := min(start+q.Limit, len(matched))

	items := make([]T, 0, end-start)
	for _, row := range matched[start:end] {
		items = append(items, r.clone(row))
	}

	return &Page[T]{
		Items:      items,
		Pagination: NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (r *MemoryRepository[T]) GetLiveByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.FindOneLive(ctx, Filters{ColumnID: id})
}

func (r *MemoryRepository[T]) GetLiveBySlug(ctx context.Context, slug string) (*T, error) {
	if !r.desc.Sluggable() {
		return nil, ErrNotSluggable
	}
	return r.FindOneLive(ctx, Filters{r.desc.SlugColumn: slug})
}

func (r *MemoryRepository[T]) FindOneLive(_ context.Context, filters Filters) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched, err := r.matchLive(filters, "")
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%s: %w", r.desc.Table, ErrNotFound)
	}

	item := r.clone(matched[0])
	return &item, nil
}

func (r *MemoryRepository[T]) FindAllLive(_ context.Context, q FindQuery) ([]T, error) {
	sortColumn := q.Sort.Column
	if sortColumn == "" {
		sortColumn = ColumnCreatedAt
	}
	if err := r.desc.checkSort(sortColumn); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matched, err := r.matchLive(q.Filters, "")
	if err != nil {
		return nil, err
	}
	r.sortRows(matched, sortColumn, q.Sort.Desc)

	items := make([]T, 0, len(matched))
	for _, row := range matched {
		if len(q.Columns) > 0 {
			items = append(items, r.project(row, q.Columns))
		} else {
			items = append(items, r.clone(row))
		}
	}
	return items, nil
}

func (r *MemoryRepository[T]) Create(_ context.Context, changes Changes) (*T, error) {
	if err := r.desc.checkChanges(changes); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row := new(T)
	for column, value := range r.desc.Defaults {
		if err := r.set(row, column, cloneValue(value)); err != nil {
			return nil, err
		}
	}
	if err := r.apply(row, changes); err != nil {
		return nil, err
	}

	now := r.now()
	_ = r.set(row, ColumnID, uuid.New())
	_ = r.set(row, ColumnCreatedAt, now)
	_ = r.set(row, ColumnUpdatedAt, now)

	if err := r.checkUnique(row); err != nil {
		return nil, err
	}

	r.rows = append(r.rows, row)
	item := r.clone(row)
	return &item, nil
}

func (r *MemoryRepository[T]) UpdateLive(_ context.Context, id uuid.UUID, changes Changes) (*T, error) {
	if err := r.desc.checkChanges(changes); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.byID(id, false)
	if row == nil {
		return nil, fmt.Errorf("%s: %w", r.desc.Table, ErrNotFound)
	}

	updated := new(T)
	*updated = r.clone(row)
	if err := r.apply(updated, changes); err != nil {
		return nil, err
	}
	_ = r.set(updated, ColumnUpdatedAt, r.now())

	if err := r.checkUnique(updated); err != nil {
		return nil, err
	}

	*row = *updated
	item := r.clone(row)
	return &item, nil
}

func (r *MemoryRepository[T]) SoftDelete(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.byID(id, false)
	if row == nil {
		return nil, fmt.Errorf("%s: %w", r.desc.Table, ErrNotFound)
	}

	now := r.now()
	_ = r.set(row, ColumnDeletedAt, &now)

	item := r.clone(row)
	return &item, nil
}

func (r *MemoryRepository[T]) Restore(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.byID(id, true)
	if row == nil {
		return nil, fmt.Errorf("%s: %w", r.desc.Table, ErrNotFound)
	}

	restored := new(T)
	*restored = r.clone(row)
	_ = r.set(restored, ColumnDeletedAt, nil)
	_ = r.set(restored, ColumnUpdatedAt, r.now())

	if err := r.checkUnique(restored); err != nil {
		return nil, err
	}

	*row = *restored
	item := r.clone(row)
	return &item, nil
}

func (r *MemoryRepository[T]) HardDelete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.rows)
	r.rows = slices.DeleteFunc(r.rows, func(row *T) bool {
		return (*row).RecordID() == id
	})
	return len(r.rows) < before, nil
}

// now never returns the same instant twice so created_at ordering is total.
func (r *MemoryRepository[T]) now() time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now
	return now
}

func (r *MemoryRepository[T]) byID(id uuid.UUID, deleted bool) *T {
	for _, row := range r.rows {
		if (*row).RecordID() == id && r.isDeleted(row) == deleted {
			return row
		}
	}
	return nil
}

func (r *MemoryRepository[T]) isDeleted(row *T) bool {
	v, _ := r.field(row, ColumnDeletedAt)
	return v.IsValid() && !v.IsNil()
}

func (r *MemoryRepository[T]) matchLive(filters Filters, search string) ([]*T, error) {
	columns := filters.columns()
	for _, column := range columns {
		if err := r.desc.checkFilter(column); err != nil {
			return nil, err
		}
	}

	search = strings.ToLower(strings.TrimSpace(search))

	var matched []*T
	for _, row := range r.rows {
		if r.isDeleted(row) {
			continue
		}
		if !r.matchFilters(row, filters, columns) {
			continue
		}
		if search != "" && len(r.desc.Searchable) > 0 && !r.matchSearch(row, search) {
			continue
		}
		matched = append(matched, row)
	}
	return matched, nil
}

func (r *MemoryRepository[T]) matchFilters(row *T, filters Filters, columns []string) bool {
	for _, column := range columns {
		v, err := r.field(row, column)
		if err != nil || !equalValue(v, filters[column]) {
			return false
		}
	}
	return true
}

func (r *MemoryRepository[T]) matchSearch(row *T, search string) bool {
	for _, column := range r.desc.Searchable {
		v, err := r.field(row, column)
		if err != nil {
			continue
		}
		if s, ok := stringValue(v); ok && strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}

func (r *MemoryRepository[T]) checkUnique(candidate *T) error {
	if r.isDeleted(candidate) {
		return nil
	}

	for _, column := range r.desc.UniqueLive {
		value, err := r.field(candidate, column)
		if err != nil {
			return err
		}
		for _, row := range r.rows {
			if (*row).RecordID() == (*candidate).RecordID() || r.isDeleted(row) {
				continue
			}
			other, _ := r.field(row, column)
			if equalValue(other, value.Interface()) {
				constraint := r.desc.Table + "_" + column + "_key"
				return &pgconn.PgError{
					Severity:       "ERROR",
					Code:           "23505",
					Message:        fmt.Sprintf("duplicate key value violates unique constraint %q", constraint),
					Detail:         fmt.Sprintf("Key (%s)=(%v) already exists.", column, value.Interface()),
					TableName:      r.desc.Table,
					ConstraintName: constraint,
				}
			}
		}
	}
	return nil
}

func (r *MemoryRepository[T]) sortRows(rows []*T, column string, desc bool) {
	slices.SortStableFunc(rows, func(a, b *T) int {
		va, _ := r.field(a, column)
		vb, _ := r.field(b, column)
		c := compareValue(va, vb)
		if desc {
			return -c
		}
		return c
	})
}

func (r *MemoryRepository[T]) apply(row *T, changes Changes) error {
	for _, column := range changes.columns() {
		if err := r.set(row, column, cloneValue(changes[column])); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryRepository[T]) field(row *T, column string) (reflect.Value, error) {
	index, ok := r.fields[column]
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, r.desc.Table, column)
	}
	return reflect.ValueOf(row).Elem().FieldByIndex(index), nil
}

func (r *MemoryRepository[T]) set(row *T, column string, value any) error {
	f, err := r.field(row, column)
	if err != nil {
		return err
	}

	if value == nil {
		f.SetZero()
		return nil
	}

	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(f.Type()):
		f.Set(v)
	case v.Kind() == reflect.Pointer && v.IsNil():
		f.SetZero()
	case v.Kind() == reflect.Pointer && v.Elem().Type().AssignableTo(f.Type()):
		f.Set(v.Elem())
	case f.Kind() == reflect.Pointer && v.Type().AssignableTo(f.Type().Elem()):
		p := reflect.New(f.Type().Elem())
		p.Elem().Set(v)
		f.Set(p)
	case v.Type().ConvertibleTo(f.Type()):
		f.Set(v.Convert(f.Type()))
	default:
		return fmt.Errorf("cannot assign %T to %s.%s", value, r.desc.Table, column)
	}
	return nil
}

func (r *MemoryRepository[T]) clone(row *T) T {
	out := *row
	v := reflect.ValueOf(&out).Elem()
	for _, index := range r.fields {
		f := v.FieldByIndex(index)
		switch f.Kind() {
		case reflect.Slice:
			if !f.IsNil() {
				f.Set(cloneSlice(f))
			}
		case reflect.Pointer:
			if !f.IsNil() {
				p := reflect.New(f.Type().Elem())
				p.Elem().Set(f.Elem())
				f.Set(p)
			}
		}
	}
	return out
}

// project mirrors a narrowed SELECT: columns outside the list keep their zero value.
func (r *MemoryRepository[T]) project(row *T, columns []string) T {
	full := r.clone(row)
	var out T
	src := reflect.ValueOf(&full).Elem()
	dst := reflect.ValueOf(&out).Elem()
	for _, column := range columns {
		if index, ok := r.fields[column]; ok {
			dst.FieldByIndex(index).Set(src.FieldByIndex(index))
		}
	}
	return out
}

func cloneSlice(v reflect.Value) reflect.Value {
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	return out
}

func cloneValue(value any) any {
	if value == nil {
		return nil
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && !v.IsNil() {
		return cloneSlice(v).Interface()
	}
	return value
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.IsValid()
}

func stringValue(v reflect.Value) (string, bool) {
	v, ok := indirect(v)
	if !ok || v.Kind() != reflect.String {
		return "", false
	}
	return v.String(), true
}

func equalValue(field reflect.Value, want any) bool {
	fv, ok := indirect(field)
	if !ok {
		return false
	}
	wv, ok := indirect(reflect.ValueOf(want))
	if !ok {
		return false
	}
	if wv.Type() != fv.Type() {
		if !wv.Type().ConvertibleTo(fv.Type()) {
			return false
		}
		wv = wv.Convert(fv.Type())
	}
	return reflect.DeepEqual(fv.Interface(), wv.Interface())
}

// compareValue orders NULLs last, like PostgreSQL does for ascending sorts.
func compareValue(a, b reflect.Value) int {
	av, aok := indirect(a)
	bv, bok := indirect(b)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}

	if at, ok := av.Interface().(time.Time); ok {
		if bt, ok := bv.Interface().(time.Time); ok {
			return at.Compare(bt)
		}
	}

	switch av.Kind() {
	case reflect.String:
		return cmp.Compare(av.String(), bv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(av.Int(), bv.Int())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(av.Float(), bv.Float())
	}
	return 0
}
