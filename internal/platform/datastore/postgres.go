package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"a2admin/internal/sentinel"
)

// PostgresStore runs Store operations against PostgreSQL through database/sql.
// Table and column names are checked against the schema before squirrel
// quotes them into SQL; values always travel as parameters.
type PostgresStore struct {
	db     *sql.DB
	schema Schema
	psql   sq.StatementBuilderType
}

func NewPostgres(db *sql.DB, schema Schema) *PostgresStore {
	return &PostgresStore{db: db, schema: schema, psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

func (s *PostgresStore) Select(ctx context.Context, table string, columns []string, filters ...Filter) ([]Row, error) {
	if len(columns) == 0 {
		columns = s.schema[table]
	}
	if err := s.schema.checkColumns(table, append(slices.Clone(columns), filterColumns(filters)...)...); err != nil {
		return nil, err
	}
	if matchesNothing(filters) {
		return nil, nil
	}

	query, args, err := where(s.psql.Select(quoteAll(columns)...).From(quote(table)), filters).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s: %w", table, err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		row := make(Row, len(columns))
		for i, c := range columns {
			row[c] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, table string, row Row) error {
	cols := sortedKeys(row)
	if err := s.schema.checkColumns(table, cols...); err != nil {
		return err
	}

	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = row[c]
	}
	query, args, err := s.psql.Insert(quote(table)).Columns(quoteAll(cols)...).Values(values...).ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert %s: %w", table, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, table string, set Row, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrUnscoped
	}
	cols := sortedKeys(set)
	if err := s.schema.checkColumns(table, append(slices.Clone(cols), filterColumns(filters)...)...); err != nil {
		return 0, err
	}
	if matchesNothing(filters) {
		return 0, nil
	}

	b := s.psql.Update(quote(table))
	for _, c := range cols {
		b = b.Set(quote(c), set[c])
	}
	query, args, err := where(b, filters).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update %s: %w", table, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("update %s: %w", table, sentinel.ErrAlreadyUsed)
		}
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrUnscoped
	}
	if err := s.schema.checkColumns(table, filterColumns(filters)...); err != nil {
		return 0, err
	}
	if matchesNothing(filters) {
		return 0, nil
	}

	query, args, err := where(s.psql.Delete(quote(table)), filters).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete %s: %w", table, err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return res.RowsAffected()
}

func (s *PostgresStore) Count(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if err := s.schema.checkColumns(table, filterColumns(filters)...); err != nil {
		return 0, err
	}
	if matchesNothing(filters) {
		return 0, nil
	}

	query, args, err := where(s.psql.Select("COUNT(*)").From(quote(table)), filters).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count %s: %w", table, err)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// filtered is the part of the squirrel builders that takes a WHERE clause.
type filtered[B any] interface {
	Where(pred any, args ...any) B
}

// where adds one predicate per filter; squirrel joins them with AND and
// renders a slice value as IN.
func where[B filtered[B]](b B, filters []Filter) B {
	for _, f := range filters {
		switch f.op {
		case opEq:
			b = b.Where(sq.Eq{quote(f.Column): f.values[0]})
		case opIn:
			b = b.Where(sq.Eq{quote(f.Column): f.values})
		}
	}
	return b
}

func quote(ident string) string {
	return `"` + ident + `"`
}

func quoteAll(idents []string) []string {
	q := make([]string, len(idents))
	for i, c := range idents {
		q[i] = quote(c)
	}
	return q
}

func sortedKeys(row Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// normalize turns driver byte slices into strings so rows compare the same
// across implementations.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
