package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/apidocs-boilerplate/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository is the Record Store of one entity.
//
// Every method except Restore and HardDelete only sees live rows (deleted_at IS NULL).
// Missing rows are reported with ErrNotFound.
type Repository[T model.Record] interface {
	Descriptor() Descriptor
	ListLive(ctx context.Context, q ListQuery) (*Page[T], error)
	GetLiveByID(ctx context.Context, id uuid.UUID) (*T, error)
	GetLiveBySlug(ctx context.Context, slug string) (*T, error)
	FindOneLive(ctx context.Context, filters Filters) (*T, error)
	FindAllLive(ctx context.Context, q FindQuery) ([]T, error)
	Create(ctx context.Context, changes Changes) (*T, error)
	UpdateLive(ctx context.Context, id uuid.UUID, changes Changes) (*T, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (*T, error)
	Restore(ctx context.Context, id uuid.UUID) (*T, error)
	HardDelete(ctx context.Context, id uuid.UUID) (bool, error)
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository with one SQL statement per operation.
// Rows are mapped onto T by the `db` struct tags.
type PostgresRepository[T model.Record] struct {
	db   DBTX
	desc Descriptor
}

func NewPostgresRepository[T model.Record](db DBTX, desc Descriptor) *PostgresRepository[T] {
	return &PostgresRepository[T]{db: db, desc: desc}
}

func (r *PostgresRepository[T]) Descriptor() Descriptor {
	return r.desc
}

func (r *PostgresRepository[T]) ListLive(ctx context.Context, q ListQuery) (*Page[T], error) {
	q = q.Normalized()

	where, args, err := buildWhere(r.desc, q.Filters, q.Search)
	if err != nil {
		return nil, err
	}

	var total int64
	countSQL := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, r.desc.Table, where)
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting %s: %w", r.desc.Table, err)
	}

	listSQL := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC LIMIT $%d OFFSET $%d`,
		r.selectList(), r.desc.Table, where, ColumnCreatedAt, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, listSQL, append(args, q.Limit, q.offset())...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.desc.Table, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", r.desc.Table, err)
	}

	return &Page[T]{
		Items:      items,
		Pagination: NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (r *PostgresRepository[T]) GetLiveByID(ctx context.Context, id uuid.UUID) (*T, error) {
	return r.FindOneLive(ctx, Filters{ColumnID: id})
}

func (r *PostgresRepository[T]) GetLiveBySlug(ctx context.Context, slug string) (*T, error) {
	if !r.desc.Sluggable() {
		return nil, ErrNotSluggable
	}
	return r.FindOneLive(ctx, Filters{r.desc.SlugColumn: slug})
}

func (r *PostgresRepository[T]) FindOneLive(ctx context.Context, filters Filters) (*T, error) {
	where, args, err := buildWhere(r.desc, filters, "")
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIMIT 1`, r.selectList(), r.desc.Table, where)
	return r.queryOne(ctx, sql, args...)
}

func (r *PostgresRepository[T]) FindAllLive(ctx context.Context, q FindQuery) ([]T, error) {
	where, args, err := buildWhere(r.desc, q.Filters, "")
	if err != nil {
		return nil, err
	}

	sortColumn := q.Sort.Column
	if sortColumn == "" {
		sortColumn = ColumnCreatedAt
	}
	if err := r.desc.checkSort(sortColumn); err != nil {
		return nil, err
	}
	direction := "ASC"
	if q.Sort.Desc {
		direction = "DESC"
	}

	columns := r.selectList()
	if len(q.Columns) > 0 {
		columns = strings.Join(q.Columns, ", ")
	}

	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s %s`, columns, r.desc.Table, where, sortColumn, direction)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.desc.Table, err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", r.desc.Table, err)
	}
	return items, nil
}

func (r *PostgresRepository[T]) Create(ctx context.Context, changes Changes) (*T, error) {
	if err := r.desc.checkChanges(changes); err != nil {
		return nil, err
	}

	sql, args := buildInsert(r.desc.Table, changes, r.selectList())
	return r.queryOne(ctx, sql, args...)
}

func (r *PostgresRepository[T]) UpdateLive(ctx context.Context, id uuid.UUID, changes Changes) (*T, error) {
	if err := r.desc.checkChanges(changes); err != nil {
		return nil, err
	}

	sql, args := buildUpdate(r.desc.Table, id, changes, r.selectList())
	return r.queryOne(ctx, sql, args...)
}

func (r *PostgresRepository[T]) SoftDelete(ctx context.Context, id uuid.UUID) (*T, error) {
	sql := fmt.Sprintf(`UPDATE %s SET %s = now() WHERE %s = $1 AND %s IS NULL RETURNING %s`,
		r.desc.Table, ColumnDeletedAt, ColumnID, ColumnDeletedAt, r.selectList())
	return r.queryOne(ctx, sql, id)
}

func (r *PostgresRepository[T]) Restore(ctx context.Context, id uuid.UUID) (*T, error) {
	sql := fmt.Sprintf(`UPDATE %s SET %s = NULL, %s = now() WHERE %s = $1 AND %s IS NOT NULL RETURNING %s`,
		r.desc.Table, ColumnDeletedAt, ColumnUpdatedAt, ColumnID, ColumnDeletedAt, r.selectList())
	return r.queryOne(ctx, sql, id)
}

func (r *PostgresRepository[T]) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.desc.Table, ColumnID), id)
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", r.desc.Table, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository[T]) queryOne(ctx context.Context, sql string, args ...any) (*T, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.desc.Table, err)
	}

	item, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", r.desc.Table, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.desc.Table, err)
	}
	return item, nil
}

func (r *PostgresRepository[T]) selectList() string {
	return strings.Join(r.desc.Columns, ", ")
}

// buildWhere renders the live predicate plus equality filters and the optional
// case-insensitive search across the searchable columns.
func buildWhere(desc Descriptor, filters Filters, search string) (string, []any, error) {
	clauses := []string{ColumnDeletedAt + " IS NULL"}
	var args []any

	for _, column := range filters.columns() {
		if err := desc.checkFilter(column); err != nil {
			return "", nil, err
		}
		args = append(args, filters[column])
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if search = strings.TrimSpace(search); search != "" && len(desc.Searchable) > 0 {
		args = append(args, "%"+escapeLike(search)+"%")
		matches := make([]string, 0, len(desc.Searchable))
		for _, column := range desc.Searchable {
			matches = append(matches, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
		}
		clauses = append(clauses, "("+strings.Join(matches, " OR ")+")")
	}

	return strings.Join(clauses, " AND "), args, nil
}

func buildInsert(table string, changes Changes, returning string) (string, []any) {
	if len(changes) == 0 {
		return fmt.Sprintf(`INSERT INTO %s DEFAULT VALUES RETURNING %s`, table, returning), nil
	}

	columns := changes.columns()
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = changes[column]
	}

	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), returning), args
}

func buildUpdate(table string, id uuid.UUID, changes Changes, returning string) (string, []any) {
	columns := changes.columns()
	sets := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns)+1)
	for _, column := range columns {
		args = append(args, changes[column])
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	sets = append(sets, ColumnUpdatedAt+" = now()")
	args = append(args, id)

	return fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d AND %s IS NULL RETURNING %s`,
		table, strings.Join(sets, ", "), ColumnID, len(args), ColumnDeletedAt, returning), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
