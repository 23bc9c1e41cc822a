package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

const table = "generations"

var columns = []string{"id", "uid", "template_name", "entity", "kinds", "bytes", "created_at"}

// SQLStore implements Store on SQLite. Queries are built with ent's SQL
// builder so the statements stay dialect-aware.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open database.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Open opens a SQLite database. A single connection is used so that
// ":memory:" databases are shared by every query.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Migrate creates the generations table if it does not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	query, args := builder().CreateTable(table).IfNotExists().
		Columns(
			entsql.Column("seq").Type("integer").Attr("PRIMARY KEY AUTOINCREMENT"),
			entsql.Column("id").Type("text").Attr("NOT NULL UNIQUE"),
			entsql.Column("uid").Type("text").Attr("NOT NULL DEFAULT ''"),
			entsql.Column("template_name").Type("text").Attr("NOT NULL DEFAULT ''"),
			entsql.Column("entity").Type("text").Attr("NOT NULL"),
			entsql.Column("kinds").Type("text").Attr("NOT NULL DEFAULT '[]'"),
			entsql.Column("bytes").Type("integer").Attr("NOT NULL DEFAULT 0"),
			entsql.Column("created_at").Type("integer").Attr("NOT NULL"),
		).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("creating %s table: %w", table, err)
	}
	return nil
}

func (s *SQLStore) Record(ctx context.Context, g Generation) error {
	kinds, err := json.Marshal(nonNil(g.Kinds))
	if err != nil {
		return fmt.Errorf("encoding kinds: %w", err)
	}
	query, args := builder().Insert(table).
		Columns(columns...).
		Values(g.ID.String(), g.UID, g.TemplateName, g.Entity, string(kinds), g.Bytes, g.CreatedAt.UnixMilli()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("recording generation %s: %w", g.ID, err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id uuid.UUID) (Generation, error) {
	query, args := builder().Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.EQ("id", id.String())).
		Query()
	g, err := scanGeneration(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Generation{}, ErrNotFound
	}
	return g, err
}

func (s *SQLStore) List(ctx context.Context, p Page) ([]Generation, int, error) {
	p = p.Normalize()

	countQuery, countArgs := builder().Select(entsql.Count("*")).From(entsql.Table(table)).Query()
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting generations: %w", err)
	}

	query, args := builder().Select(columns...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("seq")).
		Limit(p.Limit).
		Offset(p.Offset).
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing generations: %w", err)
	}
	defer rows.Close()

	out := []Generation{}
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, g)
	}
	return out, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row scanner) (Generation, error) {
	var (
		g         Generation
		id, kinds string
		createdAt int64
	)
	if err := row.Scan(&id, &g.UID, &g.TemplateName, &g.Entity, &kinds, &g.Bytes, &createdAt); err != nil {
		return Generation{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Generation{}, fmt.Errorf("parsing generation id %q: %w", id, err)
	}
	g.ID = parsed
	if err := json.Unmarshal([]byte(kinds), &g.Kinds); err != nil {
		return Generation{}, fmt.Errorf("decoding kinds of %s: %w", id, err)
	}
	g.CreatedAt = time.UnixMilli(createdAt).UTC()
	return g, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
