package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hierarchy-api/internal/metrics"
	"hierarchy-api/internal/model"
	"hierarchy-api/internal/schema"
)

// RecordRepository fetches hierarchy members from the record store. All
// identifiers come from the registry (never raw from the request) and are
// still quoted; all values travel as bind arguments.
type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

// FetchRootValue resolves the root-link value of one record. A missing record
// resolves to the empty string rather than an error; the member query then
// simply matches nothing.
func (r *RecordRepository) FetchRootValue(ctx context.Context, rt *schema.RecordType, rootField string, recordID string) (string, error) {
	metrics.StoreQueries.WithLabelValues("fetch_root").Inc()

	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 LIMIT 1",
		pgx.Identifier{rootField}.Sanitize(),
		pgx.Identifier{rt.Table}.Sanitize(),
		pgx.Identifier{rt.IDField}.Sanitize(),
	)

	var value *string
	err := r.pool.QueryRow(ctx, sql, recordID).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetch root value: %w", err)
	}

	if value == nil {
		return "", nil
	}
	return *value, nil
}

// FetchMembers returns every record of the type whose root-link field equals
// rootValue, projecting exactly the given fields in the store's row order.
func (r *RecordRepository) FetchMembers(ctx context.Context, rt *schema.RecordType, rootField string, rootValue string, fields []string) ([]model.Record, error) {
	metrics.StoreQueries.WithLabelValues("fetch_members").Inc()

	projection := make([]string, 0, len(fields))
	for _, field := range fields {
		projection = append(projection, pgx.Identifier{field}.Sanitize())
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1 ORDER BY %s",
		strings.Join(projection, ", "),
		pgx.Identifier{rt.Table}.Sanitize(),
		pgx.Identifier{rootField}.Sanitize(),
		pgx.Identifier{rt.IDField}.Sanitize(),
	)

	rows, err := r.pool.Query(ctx, sql, rootValue)
	if err != nil {
		return nil, fmt.Errorf("fetch members: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]model.Record, error) {
	descriptions := rows.FieldDescriptions()
	records := make([]model.Record, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read record values: %w", err)
		}

		record := make(model.Record, len(descriptions))
		for i, desc := range descriptions {
			record[desc.Name] = values[i]
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
