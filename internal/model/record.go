package model

import "fmt"

// Record is one row of a registered record type: a mapping from field name to
// whatever value the store returned. The shape is deliberately dynamic because
// the set of projected fields is chosen per request.
type Record map[string]any

// Str returns the value of a field rendered as a string. Absent and null
// values come back as the empty string; anything else is passed through
// verbatim (non-string scalars via fmt, so JSON-decoded ids still group).
// Parent-link and root-link values go through this accessor.
func (r Record) Str(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", v)
}

// Get returns the raw field value and whether the field was projected.
func (r Record) Get(field string) (any, bool) {
	v, ok := r[field]
	return v, ok
}

// QueryParameters describes one hierarchy build: which record type to query,
// which record anchors the tree, and which fields drive the grouping.
type QueryParameters struct {
	TargetType   string   `json:"type"`
	RootRecordID string   `json:"root_record_id"`
	RootField    string   `json:"root_field"`
	ParentField  string   `json:"parent_field"`
	Fields       []string `json:"fields"`
}

// HierarchyResult is the regrouped record set a tree-grid widget consumes:
// parentless records in order, everything else bucketed under its parent id.
type HierarchyResult struct {
	TopLevelRecords  []Record            `json:"top_level_records"`
	ChildrenByParent map[string][]Record `json:"children_by_parent"`
	TotalCount       int                 `json:"total_count"`
	BaseURL          string              `json:"base_url"`
}
