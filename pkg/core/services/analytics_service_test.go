package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

func TestAnalyticsService_ProfileSummary(t *testing.T) {
	store := newMemStore()
	store.links["a"] = domain.Link{ID: "a", ProfileID: "p1", Title: "A", OrderIndex: 0, IsActive: true, ClickCount: 3}
	store.links["b"] = domain.Link{ID: "b", ProfileID: "p1", Title: "B", OrderIndex: 1, IsActive: true, ClickCount: 7}
	store.links["c"] = domain.Link{ID: "c", ProfileID: "p1", Title: "C", OrderIndex: 2, IsActive: false}

	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	store.events = []domain.ClickEvent{
		{ID: "1", LinkID: "a", ClickedAt: now.Add(-time.Hour)},
		{ID: "2", LinkID: "b", ClickedAt: now.Add(-26 * time.Hour)},
		{ID: "3", LinkID: "b", ClickedAt: now.Add(-30 * 24 * time.Hour)},
	}

	svc := NewAnalyticsService(store, store, time.UTC, 7)
	svc.now = func() time.Time { return now }

	sum, err := svc.ProfileSummary(context.Background(), "p1", 0)
	require.NoError(t, err)

	assert.Equal(t, int64(10), sum.TotalClicks)
	assert.Equal(t, 2, sum.ActiveLinks)
	require.Len(t, sum.Links, 3)
	assert.InDelta(t, 0.7, sum.Links[0].Share, 1e-9)
	assert.Equal(t, "b", sum.Links[0].LinkID)

	require.Len(t, sum.Daily, 2)
	assert.Equal(t, "2024-05-09", sum.Daily[0].Date)
	assert.Equal(t, "2024-05-10", sum.Daily[1].Date)
}

func TestAnalyticsService_LinkDaily(t *testing.T) {
	store := newMemStore()
	store.links["a"] = domain.Link{ID: "a", ProfileID: "p1", Title: "A", IsActive: true}
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	store.events = []domain.ClickEvent{
		{ID: "1", LinkID: "a", ClickedAt: now.Add(-time.Hour)},
		{ID: "2", LinkID: "a", ClickedAt: now.Add(-2 * time.Hour)},
	}

	svc := NewAnalyticsService(store, store, nil, 0)
	svc.now = func() time.Time { return now }

	daily, err := svc.LinkDaily(context.Background(), "a", 1)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, int64(2), daily[0].Count)

	_, err = svc.LinkDaily(context.Background(), "missing", 7)
	assert.True(t, domain.IsNotFound(err))
}
