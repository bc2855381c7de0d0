package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

func TestTotalsAndShares(t *testing.T) {
	links := []domain.Link{
		{ID: "a", ClickCount: 3, IsActive: true},
		{ID: "b", ClickCount: 7, IsActive: false},
		{ID: "c", ClickCount: 0, IsActive: true},
	}

	assert.Equal(t, int64(10), TotalClicks(links))

	shares := Shares(links)
	require.Len(t, shares, 3)
	assert.InDelta(t, 0.3, shares[0].Share, 1e-9)
	assert.InDelta(t, 0.7, shares[1].Share, 1e-9)
	assert.Equal(t, 0.0, shares[2].Share)
}

func TestShares_ZeroTotal(t *testing.T) {
	shares := Shares([]domain.Link{{ID: "a"}, {ID: "b"}})
	for _, s := range shares {
		assert.Equal(t, 0.0, s.Share)
	}
	assert.Equal(t, 0.0, Share(5, 0))
}

func TestRank_TieBrokenByOrderIndex(t *testing.T) {
	links := []domain.Link{
		{ID: "x", ClickCount: 10, OrderIndex: 2},
		{ID: "y", ClickCount: 10, OrderIndex: 0},
		{ID: "z", ClickCount: 5, OrderIndex: 1},
	}

	ranked := Rank(links)

	assert.Equal(t, []int{0, 2, 1}, []int{ranked[0].OrderIndex, ranked[1].OrderIndex, ranked[2].OrderIndex})
	assert.Equal(t, []int64{10, 10, 5}, []int64{ranked[0].ClickCount, ranked[1].ClickCount, ranked[2].ClickCount})
	assert.Equal(t, "x", links[0].ID, "input is not reordered")
}

func TestDaily_SparseLocalDays(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, loc)

	events := []domain.ClickEvent{
		// 2024-03-10 03:00 UTC is still March 9 at UTC-5.
		{LinkID: "a", ClickedAt: time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)},
		{LinkID: "a", ClickedAt: time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)},
		{LinkID: "b", ClickedAt: time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)},
		{LinkID: "b", ClickedAt: time.Date(2024, 3, 7, 15, 0, 0, 0, time.UTC)},
		// outside a 3-day window
		{LinkID: "b", ClickedAt: time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)},
	}

	got := Daily(events, loc, now, 3)

	assert.Equal(t, []domain.DailyClick{
		{Date: "2024-03-09", Count: 2},
		{Date: "2024-03-10", Count: 1},
	}, got)
}

func TestDaily_Empty(t *testing.T) {
	got := Daily(nil, nil, time.Now(), 7)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSummarize(t *testing.T) {
	links := []domain.Link{
		{ID: "a", ClickCount: 1, OrderIndex: 0, IsActive: true},
		{ID: "b", ClickCount: 3, OrderIndex: 1, IsActive: false},
	}
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	events := []domain.ClickEvent{{LinkID: "b", ClickedAt: now.Add(-time.Hour)}}

	s := Summarize(links, events, time.UTC, now, 7)

	assert.Equal(t, int64(4), s.TotalClicks)
	assert.Equal(t, 1, s.ActiveLinks)
	assert.InDelta(t, 2.0, s.AvgClicksPerLink, 1e-9)
	require.Len(t, s.Links, 2)
	assert.Equal(t, "b", s.Links[0].LinkID)
	assert.InDelta(t, 0.75, s.Links[0].Share, 1e-9)
	assert.Equal(t, []domain.DailyClick{{Date: "2024-01-02", Count: 1}}, s.Daily)
}
