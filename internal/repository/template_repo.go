package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hierarchy-api/internal/metrics"
	"hierarchy-api/internal/model"
	"hierarchy-api/internal/schema"
)

// TemplateRepository looks up configuration records by label. The projection
// is every column the registry introspected for the template table.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// FindByLabel returns the first configuration record matching the label, or
// nil when none matches. Absent is a valid, common outcome, not an error.
func (r *TemplateRepository) FindByLabel(ctx context.Context, tpl *schema.RecordType, label string) (model.Record, error) {
	metrics.StoreQueries.WithLabelValues("fetch_template").Inc()

	projection := make([]string, 0)
	for _, field := range tpl.Fields() {
		projection = append(projection, pgx.Identifier{field}.Sanitize())
	}

	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE lower(%s) = lower($1) LIMIT 1",
		strings.Join(projection, ", "),
		pgx.Identifier{tpl.Table}.Sanitize(),
		pgx.Identifier{tpl.LabelField}.Sanitize(),
	)

	rows, err := r.pool.Query(ctx, sql, label)
	if err != nil {
		return nil, fmt.Errorf("fetch template: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	return records[0], nil
}
