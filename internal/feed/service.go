// Package feed builds paged notification feeds from the inbox filter.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cristianoliveira/inboxkit/internal/domain"
	"github.com/cristianoliveira/inboxkit/internal/inbox"
	"github.com/cristianoliveira/inboxkit/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidPage is returned for a negative page, a non-positive limit or a
// page whose offset does not fit in an int.
var ErrInvalidPage = errors.New("feed: invalid page")

// maxConcurrentCounts bounds the per-tab count queries issued by TabCounts.
const maxConcurrentCounts = 4

// Reader is the part of the notification repository the feed needs.
type Reader interface {
	List(ctx context.Context, q domain.Query) ([]domain.Notification, error)
	Count(ctx context.Context, q domain.Query) (int, error)
}

// Service fetches feed pages.
type Service struct {
	repo   Reader
	logger logging.Logger
}

// NewService creates a feed service over repo.
func NewService(repo Reader) *Service {
	return &Service{
		repo:   repo,
		logger: logging.With("component", "feed"),
	}
}

// QueryFor translates an inbox filter into a storage query for one page.
func QueryFor(f inbox.Filter, page, limit int) domain.Query {
	f = f.Clone()
	return domain.Query{
		Archived: f.Archived,
		Read:     f.Read,
		Tags:     f.Tags,
		Limit:    limit,
		Offset:   page * limit,
	}
}

// Fetch returns page (zero-based) of the feed selected by f.
func (s *Service) Fetch(ctx context.Context, f inbox.Filter, page, limit int) (domain.FeedResponse, error) {
	if page < 0 || limit < 1 || page > math.MaxInt/limit {
		return domain.FeedResponse{}, fmt.Errorf("%w: page=%d limit=%d", ErrInvalidPage, page, limit)
	}
	q := QueryFor(f, page, limit)

	var (
		items []domain.Notification
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("fetch failed", "page", page, "limit", limit, "error", err)
		return domain.FeedResponse{}, fmt.Errorf("feed: fetch page %d: %w", page, err)
	}
	if items == nil {
		items = []domain.Notification{}
	}

	s.logger.Debug("fetched", "page", page, "limit", limit, "count", len(items), "total", total)
	return domain.FeedResponse{
		TotalCount: &total,
		HasMore:    q.Offset+len(items) < total,
		Data:       items,
		PageSize:   limit,
		Page:       page,
	}, nil
}

// TabCounts returns the number of notifications per tab label for status.
func (s *Service) TabCounts(ctx context.Context, status inbox.Status, tabs []inbox.Tab) (map[string]int, error) {
	counts := make([]int, len(tabs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentCounts)
	for i, tab := range tabs {
		g.Go(func() error {
			f := inbox.DeriveFilter(status, tab.Label, tabs)
			n, err := s.repo.Count(gctx, QueryFor(f, 0, 0))
			if err != nil {
				return fmt.Errorf("count tab %q: %w", tab.Label, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}

	result := make(map[string]int, len(tabs))
	for i, tab := range tabs {
		result[tab.Label] = counts[i]
	}
	return result, nil
}
