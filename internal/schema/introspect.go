package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgColumnSource reads column names from information_schema.
type PgColumnSource struct {
	pool *pgxpool.Pool
}

func NewPgColumnSource(pool *pgxpool.Pool) *PgColumnSource {
	return &PgColumnSource{pool: pool}
}

func (s *PgColumnSource) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name = $1
		ORDER BY ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns of %q: %w", table, err)
	}
	defer rows.Close()

	columns := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		columns = append(columns, name)
	}

	return columns, rows.Err()
}
