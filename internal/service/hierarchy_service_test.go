package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hierarchy-api/internal/cache"
	"hierarchy-api/internal/model"
	"hierarchy-api/internal/schema"
)

type fakeColumnSource map[string][]string

func (s fakeColumnSource) Columns(_ context.Context, table string) ([]string, error) {
	return s[table], nil
}

type fakeFetcher struct {
	rootValue  string
	members    []model.Record
	rootCalls  int
	fetchCalls int
	lastFields []string
}

func (f *fakeFetcher) FetchRootValue(_ context.Context, _ *schema.RecordType, _ string, _ string) (string, error) {
	f.rootCalls++
	return f.rootValue, nil
}

func (f *fakeFetcher) FetchMembers(_ context.Context, _ *schema.RecordType, _ string, _ string, fields []string) ([]model.Record, error) {
	f.fetchCalls++
	f.lastFields = fields
	return f.members, nil
}

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()

	catalog, err := schema.ParseCatalog([]byte(`
types:
  - name: department
    table: departments
    id_field: id
    label_field: name
template:
  table: hierarchy_templates
  label_field: label
`))
	require.NoError(t, err)

	source := fakeColumnSource{
		"departments":         {"id", "name", "root_id", "parent_id", "manager"},
		"hierarchy_templates": {"id", "label", "target_type", "root_field", "parent_field", "field_list"},
	}

	registry, err := schema.NewRegistry(context.Background(), source, catalog)
	require.NoError(t, err)
	return registry
}

func newTestService(t *testing.T, fetcher *fakeFetcher) (*HierarchyService, *cache.Cache[model.HierarchyResult]) {
	t.Helper()

	results, err := cache.New[model.HierarchyResult](100, time.Minute)
	require.NoError(t, err)

	return NewHierarchyService(testRegistry(t), fetcher, results, "https://example.test/"), results
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &fakeFetcher{})

	t.Run("empty input yields empty buckets", func(t *testing.T) {
		result := svc.Assemble(nil, "parent_id")

		require.Empty(t, result.TopLevelRecords)
		require.Empty(t, result.ChildrenByParent)
		require.Zero(t, result.TotalCount)
	})

	t.Run("every record lands in exactly one bucket", func(t *testing.T) {
		records := []model.Record{
			{"id": "a", "parent_id": ""},
			{"id": "b", "parent_id": "a"},
			{"id": "c", "parent_id": "a"},
			{"id": "d", "parent_id": "b"},
			{"id": "e", "parent_id": nil},
		}

		result := svc.Assemble(records, "parent_id")

		placed := len(result.TopLevelRecords)
		for _, children := range result.ChildrenByParent {
			placed += len(children)
		}
		require.Equal(t, len(records), result.TotalCount)
		require.Equal(t, len(records), placed)
		require.Len(t, result.TopLevelRecords, 2)
		require.Len(t, result.ChildrenByParent["a"], 2)
		require.Len(t, result.ChildrenByParent["b"], 1)
	})

	t.Run("children keep input order within a bucket", func(t *testing.T) {
		records := []model.Record{
			{"id": "c2", "parent_id": "p"},
			{"id": "c1", "parent_id": "p"},
			{"id": "c3", "parent_id": "p"},
		}

		result := svc.Assemble(records, "parent_id")

		children := result.ChildrenByParent["p"]
		require.Equal(t, "c2", children[0].Str("id"))
		require.Equal(t, "c1", children[1].Str("id"))
		require.Equal(t, "c3", children[2].Str("id"))
	})

	t.Run("bucket keys are the parent values verbatim", func(t *testing.T) {
		records := []model.Record{
			{"id": "x", "parent_id": " P1 "},
		}

		result := svc.Assemble(records, "parent_id")

		require.Contains(t, result.ChildrenByParent, " P1 ")
	})

	t.Run("orphaned branches stay in their bucket", func(t *testing.T) {
		records := []model.Record{
			{"id": "x", "parent_id": "never-a-member"},
		}

		result := svc.Assemble(records, "parent_id")

		require.Empty(t, result.TopLevelRecords)
		require.Len(t, result.ChildrenByParent["never-a-member"], 1)
	})

	t.Run("base url comes from the deployment, trailing slash trimmed", func(t *testing.T) {
		result := svc.Assemble(nil, "parent_id")
		require.Equal(t, "https://example.test", result.BaseURL)
	})
}

func TestBuildHierarchy(t *testing.T) {
	t.Parallel()

	t.Run("parent and two children regroup into one top-level bucket", func(t *testing.T) {
		fetcher := &fakeFetcher{
			rootValue: "P",
			members: []model.Record{
				{"id": "P", "parent_id": ""},
				{"id": "C1", "parent_id": "P"},
				{"id": "C2", "parent_id": "P"},
			},
		}
		svc, _ := newTestService(t, fetcher)

		result, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
			Fields:       []string{"id", "name"},
		})

		require.NoError(t, err)
		require.Equal(t, 3, result.TotalCount)
		require.Len(t, result.TopLevelRecords, 1)
		require.Equal(t, "P", result.TopLevelRecords[0].Str("id"))
		require.Len(t, result.ChildrenByParent["P"], 2)
		require.Equal(t, "C1", result.ChildrenByParent["P"][0].Str("id"))
		require.Equal(t, "C2", result.ChildrenByParent["P"][1].Str("id"))
	})

	t.Run("projection force-appends parent and id fields without duplicates", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		svc, _ := newTestService(t, fetcher)

		_, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
			Fields:       []string{"name", "parent_id"},
		})

		require.NoError(t, err)
		require.Equal(t, []string{"name", "parent_id", "id"}, fetcher.lastFields)
	})

	t.Run("empty field list projects every registered field", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		svc, _ := newTestService(t, fetcher)

		_, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
		})

		require.NoError(t, err)
		require.Equal(t, []string{"id", "name", "root_id", "parent_id", "manager"}, fetcher.lastFields)
	})

	t.Run("empty member set is a valid result", func(t *testing.T) {
		fetcher := &fakeFetcher{rootValue: "", members: nil}
		svc, _ := newTestService(t, fetcher)

		result, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "missing",
			RootField:    "root_id",
			ParentField:  "parent_id",
		})

		require.NoError(t, err)
		require.Zero(t, result.TotalCount)
		require.Empty(t, result.TopLevelRecords)
		require.Empty(t, result.ChildrenByParent)
	})

	t.Run("singleton member set where the root matches itself", func(t *testing.T) {
		fetcher := &fakeFetcher{
			rootValue: "P",
			members:   []model.Record{{"id": "P", "parent_id": ""}},
		}
		svc, _ := newTestService(t, fetcher)

		result, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
		})

		require.NoError(t, err)
		require.Equal(t, 1, result.TotalCount)
		require.Len(t, result.TopLevelRecords, 1)
	})

	t.Run("unknown type is rejected before any query", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		svc, _ := newTestService(t, fetcher)

		_, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:   "invoice",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
		})

		require.ErrorIs(t, err, model.ErrTypeNotRegistered)
		require.Zero(t, fetcher.rootCalls)
	})

	t.Run("unknown field is rejected before any query", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		svc, _ := newTestService(t, fetcher)

		_, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
			Fields:       []string{"name; DROP TABLE departments"},
		})

		require.ErrorIs(t, err, model.ErrFieldNotRegistered)
		require.Zero(t, fetcher.rootCalls)
	})

	t.Run("missing root record id is invalid input", func(t *testing.T) {
		svc, _ := newTestService(t, &fakeFetcher{})

		_, err := svc.BuildHierarchy(context.Background(), model.QueryParameters{
			TargetType:  "department",
			RootField:   "root_id",
			ParentField: "parent_id",
		})

		require.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("identical parameters are served from the cache", func(t *testing.T) {
		fetcher := &fakeFetcher{
			rootValue: "P",
			members:   []model.Record{{"id": "P", "parent_id": ""}},
		}
		svc, results := newTestService(t, fetcher)

		params := model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
		}

		first, err := svc.BuildHierarchy(context.Background(), params)
		require.NoError(t, err)
		results.Wait()

		second, err := svc.BuildHierarchy(context.Background(), params)
		require.NoError(t, err)

		require.Equal(t, 1, fetcher.fetchCalls)
		require.Equal(t, first, second)
	})

	t.Run("flush forces recomputation", func(t *testing.T) {
		fetcher := &fakeFetcher{
			rootValue: "P",
			members:   []model.Record{{"id": "P", "parent_id": ""}},
		}
		svc, results := newTestService(t, fetcher)

		params := model.QueryParameters{
			TargetType:   "department",
			RootRecordID: "P",
			RootField:    "root_id",
			ParentField:  "parent_id",
		}

		_, err := svc.BuildHierarchy(context.Background(), params)
		require.NoError(t, err)
		results.Wait()

		svc.FlushCache()

		_, err = svc.BuildHierarchy(context.Background(), params)
		require.NoError(t, err)
		require.Equal(t, 2, fetcher.fetchCalls)
	})
}
