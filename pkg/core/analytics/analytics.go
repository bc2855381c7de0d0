// Package analytics derives click statistics from link and event snapshots.
// Every function is pure.
package analytics

import (
	"sort"
	"time"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

const dayLayout = "2006-01-02"

// TotalClicks sums click_count over all links, active or not.
func TotalClicks(links []domain.Link) int64 {
	var total int64
	for _, l := range links {
		total += l.ClickCount
	}
	return total
}

// Share returns clicks/total, or 0 when total is 0.
func Share(clicks, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(clicks) / float64(total)
}

// Shares returns each link's share of the total, in input order.
func Shares(links []domain.Link) []domain.LinkShare {
	total := TotalClicks(links)
	out := make([]domain.LinkShare, len(links))
	for i, l := range links {
		out[i] = domain.LinkShare{
			LinkID:     l.ID,
			Title:      l.Title,
			OrderIndex: l.OrderIndex,
			IsActive:   l.IsActive,
			Clicks:     l.ClickCount,
			Share:      Share(l.ClickCount, total),
		}
	}
	return out
}

// Rank sorts a copy of links by click_count descending, ties by order_index ascending.
func Rank(links []domain.Link) []domain.Link {
	out := make([]domain.Link, len(links))
	copy(out, links)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ClickCount != out[j].ClickCount {
			return out[i].ClickCount > out[j].ClickCount
		}
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out
}

// Daily groups events by calendar day in loc, counting only events on or after
// the start of the day days-1 before now. Days without events are omitted.
// The result is sorted by date ascending. A nil loc means UTC.
func Daily(events []domain.ClickEvent, loc *time.Location, now time.Time, days int) []domain.DailyClick {
	if loc == nil {
		loc = time.UTC
	}
	if days < 1 {
		days = 1
	}
	start := WindowStart(now, loc, days)

	counts := make(map[string]int64)
	for _, e := range events {
		at := e.ClickedAt.In(loc)
		if at.Before(start) || at.After(now) {
			continue
		}
		counts[at.Format(dayLayout)]++
	}

	out := make([]domain.DailyClick, 0, len(counts))
	for date, count := range counts {
		out = append(out, domain.DailyClick{Date: date, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// WindowStart is midnight in loc of the first day of a days-long window ending today.
func WindowStart(now time.Time, loc *time.Location, days int) time.Time {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, -(days - 1))
}

// Summarize builds the dashboard summary for a profile.
func Summarize(links []domain.Link, events []domain.ClickEvent, loc *time.Location, now time.Time, days int) domain.Summary {
	total := TotalClicks(links)
	ranked := Rank(links)

	s := domain.Summary{
		TotalClicks: total,
		ActiveLinks: len(domain.ActiveOnly(links)),
		Links:       Shares(ranked),
		Daily:       Daily(events, loc, now, days),
	}
	if len(links) > 0 {
		s.AvgClicksPerLink = float64(total) / float64(len(links))
	}
	return s
}
