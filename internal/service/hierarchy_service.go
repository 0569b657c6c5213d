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

type recordFetcher interface {
	FetchRootValue(ctx context.Context, rt *schema.RecordType, rootField string, recordID string) (string, error)
	FetchMembers(ctx context.Context, rt *schema.RecordType, rootField string, rootValue string, fields []string) ([]model.Record, error)
}

// HierarchyService regroups flat record sets into the parent-to-children
// shape a tree-grid widget walks from the top-level list down.
type HierarchyService struct {
	registry *schema.Registry
	records  recordFetcher
	results  *cache.Cache[model.HierarchyResult]
	baseURL  string
}

func NewHierarchyService(registry *schema.Registry, records recordFetcher, results *cache.Cache[model.HierarchyResult], baseURL string) *HierarchyService {
	return &HierarchyService{
		registry: registry,
		records:  records,
		results:  results,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// BuildHierarchy is the composite operation: resolve the root-link value of
// the anchor record, fetch every member sharing it, regroup. Results for
// identical parameters are served from the cache within its TTL.
func (s *HierarchyService) BuildHierarchy(ctx context.Context, params model.QueryParameters) (model.HierarchyResult, error) {
	params = normalizeParams(params)
	if err := s.validateParams(params); err != nil {
		return model.HierarchyResult{}, err
	}

	key := resultKey(params)
	if cached, ok := s.results.Get(key); ok {
		metrics.CacheLookup("hierarchy", true)
		return cached, nil
	}
	metrics.CacheLookup("hierarchy", false)

	rt, err := s.registry.Type(params.TargetType)
	if err != nil {
		return model.HierarchyResult{}, err
	}

	rootValue, err := s.records.FetchRootValue(ctx, rt, params.RootField, params.RootRecordID)
	if err != nil {
		return model.HierarchyResult{}, err
	}

	members, err := s.records.FetchMembers(ctx, rt, params.RootField, rootValue, s.projection(rt, params))
	if err != nil {
		return model.HierarchyResult{}, err
	}

	result := s.Assemble(members, params.ParentField)

	metrics.HierarchyBuilds.WithLabelValues(params.TargetType).Inc()
	metrics.RecordsPerBuild.Observe(float64(result.TotalCount))

	s.results.Set(key, result)
	return result, nil
}

// Assemble groups records by their parent-link value in one stable pass.
// Empty parent value means top-level; every other value becomes a bucket key
// verbatim. No cycle or orphan detection: a record whose parent id never
// appears as a member is unreachable from the top and stays in its bucket.
func (s *HierarchyService) Assemble(records []model.Record, parentField string) model.HierarchyResult {
	result := model.HierarchyResult{
		TopLevelRecords:  make([]model.Record, 0),
		ChildrenByParent: make(map[string][]model.Record),
		TotalCount:       len(records),
		BaseURL:          s.baseURL,
	}

	for _, record := range records {
		parent := record.Str(parentField)
		if parent == "" {
			result.TopLevelRecords = append(result.TopLevelRecords, record)
			continue
		}
		result.ChildrenByParent[parent] = append(result.ChildrenByParent[parent], record)
	}

	return result
}

// projection is the member query's field list: the caller's fields with the
// parent-link and id fields force-appended so grouping always has its inputs.
func (s *HierarchyService) projection(rt *schema.RecordType, params model.QueryParameters) []string {
	fields := params.Fields
	if len(fields) == 0 {
		fields = rt.Fields()
	}

	seen := make(map[string]struct{}, len(fields)+2)
	out := make([]string, 0, len(fields)+2)
	for _, field := range append(append([]string{}, fields...), params.ParentField, rt.IDField) {
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, field)
	}

	return out
}

func (s *HierarchyService) validateParams(params model.QueryParameters) error {
	if params.TargetType == "" {
		return fmt.Errorf("%w: type is required", model.ErrInvalidInput)
	}
	if params.RootRecordID == "" {
		return fmt.Errorf("%w: root_record_id is required", model.ErrInvalidInput)
	}
	if params.RootField == "" || params.ParentField == "" {
		return fmt.Errorf("%w: root_field and parent_field are required", model.ErrInvalidInput)
	}

	rt, err := s.registry.Type(params.TargetType)
	if err != nil {
		return err
	}

	for _, field := range append(append([]string{}, params.Fields...), params.RootField, params.ParentField) {
		if !rt.HasField(field) {
			return fmt.Errorf("%w: %s.%s", model.ErrFieldNotRegistered, params.TargetType, field)
		}
	}

	return nil
}

func normalizeParams(params model.QueryParameters) model.QueryParameters {
	params.TargetType = strings.TrimSpace(params.TargetType)
	params.RootRecordID = strings.TrimSpace(params.RootRecordID)
	params.RootField = strings.TrimSpace(params.RootField)
	params.ParentField = strings.TrimSpace(params.ParentField)

	fields := make([]string, 0, len(params.Fields))
	for _, field := range params.Fields {
		trimmed := strings.TrimSpace(field)
		if trimmed == "" {
			continue
		}
		fields = append(fields, trimmed)
	}
	params.Fields = fields

	return params
}

func resultKey(params model.QueryParameters) string {
	parts := []string{params.TargetType, params.RootRecordID, params.RootField, params.ParentField}
	return cache.Key("hierarchy", append(parts, params.Fields...)...)
}

// FlushCache drops every cached hierarchy result.
func (s *HierarchyService) FlushCache() {
	s.results.Flush()
}
