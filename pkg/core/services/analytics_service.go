package services

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/analytics"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

const defaultAnalyticsDays = 7

type AnalyticsService struct {
	links       ports.LinkStore
	events      ports.EventReader
	loc         *time.Location
	defaultDays int
	now         func() time.Time
}

// NewAnalyticsService buckets daily counts in loc. A nil loc means UTC.
func NewAnalyticsService(links ports.LinkStore, events ports.EventReader, loc *time.Location, defaultDays int) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	if defaultDays < 1 {
		defaultDays = defaultAnalyticsDays
	}
	return &AnalyticsService{
		links:       links,
		events:      events,
		loc:         loc,
		defaultDays: defaultDays,
		now:         time.Now,
	}
}

var _ ports.AnalyticsService = (*AnalyticsService)(nil)

func (s *AnalyticsService) days(days int) int {
	if days < 1 {
		return s.defaultDays
	}
	return days
}

func (s *AnalyticsService) ProfileSummary(ctx context.Context, profileID string, days int) (*domain.Summary, error) {
	days = s.days(days)
	now := s.now()

	links, err := s.links.List(ctx, profileID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.ID)
	}

	var events []domain.ClickEvent
	if len(ids) > 0 {
		events, err = s.events.ListEvents(ctx, ids, analytics.WindowStart(now, s.loc, days))
		if err != nil {
			return nil, err
		}
	}

	summary := analytics.Summarize(links, events, s.loc, now, days)
	return &summary, nil
}

func (s *AnalyticsService) LinkDaily(ctx context.Context, linkID string, days int) ([]domain.DailyClick, error) {
	days = s.days(days)
	now := s.now()

	if _, err := s.links.Get(ctx, linkID); err != nil {
		return nil, err
	}
	events, err := s.events.ListEvents(ctx, []string{linkID}, analytics.WindowStart(now, s.loc, days))
	if err != nil {
		return nil, err
	}
	return analytics.Daily(events, s.loc, now, days), nil
}
