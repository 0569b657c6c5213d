package service

import (
	"context"
	"fmt"
	"strings"

	"hierarchy-api/internal/cache"
	"hierarchy-api/internal/metrics"
	"hierarchy-api/internal/model"
	"hierarchy-api/internal/schema"
)

type templateFinder interface {
	FindByLabel(ctx context.Context, tpl *schema.RecordType, label string) (model.Record, error)
}

// TemplateService serves tree-grid configuration records by label. A lookup
// that matches nothing returns nil, not an error, and both outcomes are
// cached.
type TemplateService struct {
	registry  *schema.Registry
	templates templateFinder
	results   *cache.Cache[model.Record]
}

func NewTemplateService(registry *schema.Registry, templates templateFinder, results *cache.Cache[model.Record]) *TemplateService {
	return &TemplateService{registry: registry, templates: templates, results: results}
}

func (s *TemplateService) GetTemplate(ctx context.Context, name string) (model.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: template name is required", model.ErrInvalidInput)
	}

	key := cache.Key("template", strings.ToLower(name))
	if cached, ok := s.results.Get(key); ok {
		metrics.CacheLookup("template", true)
		return cached, nil
	}
	metrics.CacheLookup("template", false)

	record, err := s.templates.FindByLabel(ctx, s.registry.Template(), name)
	if err != nil {
		return nil, err
	}

	s.results.Set(key, record)
	return record, nil
}

// FlushCache drops every cached template record.
func (s *TemplateService) FlushCache() {
	s.results.Flush()
}
