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

type fakeTemplateFinder struct {
	record model.Record
	calls  int
}

func (f *fakeTemplateFinder) FindByLabel(_ context.Context, _ *schema.RecordType, _ string) (model.Record, error) {
	f.calls++
	return f.record, nil
}

func newTemplateService(t *testing.T, finder *fakeTemplateFinder) (*TemplateService, *cache.Cache[model.Record]) {
	t.Helper()

	results, err := cache.New[model.Record](100, time.Minute)
	require.NoError(t, err)

	return NewTemplateService(testRegistry(t), finder, results), results
}

func TestGetTemplate(t *testing.T) {
	t.Parallel()

	t.Run("returns the matching configuration record", func(t *testing.T) {
		finder := &fakeTemplateFinder{record: model.Record{
			"label":        "org-chart",
			"target_type":  "department",
			"parent_field": "parent_id",
		}}
		svc, _ := newTemplateService(t, finder)

		record, err := svc.GetTemplate(context.Background(), "org-chart")

		require.NoError(t, err)
		require.Equal(t, "department", record.Str("target_type"))
	})

	t.Run("no match is absent, not an error", func(t *testing.T) {
		svc, _ := newTemplateService(t, &fakeTemplateFinder{})

		record, err := svc.GetTemplate(context.Background(), "unknown-template")

		require.NoError(t, err)
		require.Nil(t, record)
	})

	t.Run("empty name is invalid input", func(t *testing.T) {
		svc, _ := newTemplateService(t, &fakeTemplateFinder{})

		_, err := svc.GetTemplate(context.Background(), "   ")

		require.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("lookups are cached case-insensitively", func(t *testing.T) {
		finder := &fakeTemplateFinder{record: model.Record{"label": "org-chart"}}
		svc, results := newTemplateService(t, finder)

		_, err := svc.GetTemplate(context.Background(), "Org-Chart")
		require.NoError(t, err)
		results.Wait()

		_, err = svc.GetTemplate(context.Background(), "org-chart")
		require.NoError(t, err)

		require.Equal(t, 1, finder.calls)
	})
}
