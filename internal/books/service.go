// Package books implements the book query service: paginated, filtered reads
// through the query cache, and writes that commit to MongoDB and then purge
// every cached page.
package books

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/acervo/bookshelf/internal/cache"
	"github.com/acervo/bookshelf/internal/models"
	"github.com/acervo/bookshelf/internal/store"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// BookStore defines the interface for book persistence.
type BookStore interface {
	FindPage(ctx context.Context, page, limit int, term string) ([]models.Book, int64, error)
	Insert(ctx context.Context, book *models.Book) (*models.Book, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	Update(ctx context.Context, id string, req *models.UpdateBookRequest) (*models.Book, error)
	Delete(ctx context.Context, id string) error
}

// QueryCache defines the cache operations the service needs.
type QueryCache interface {
	Get(ctx context.Context, key string) (*models.PageResult, error)
	Set(ctx context.Context, key string, page *models.PageResult) error
	DeleteAllMatching(ctx context.Context, pattern string) (int64, error)
}

// Service orchestrates the query cache and the book store.
type Service struct {
	store BookStore
	cache QueryCache
	log   *slog.Logger
}

func NewService(store BookStore, cache QueryCache, log *slog.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

// List answers a paginated search, read-through: cache hit returns the stored
// page as-is; a miss runs one count plus one find, caches the page with the
// TTL, and returns it.
func (s *Service) List(ctx context.Context, page, limit int, term string) (*models.PageResult, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	term = store.Sanitize(term)

	key := cache.Key(page, limit, term)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		s.log.Debug("cache hit", "key", key)
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		// A broken cache degrades to a store read.
		s.log.Warn("cache read failed", "key", key, "err", err)
	}

	data, total, err := s.store.FindPage(ctx, page, limit, term)
	if err != nil {
		return nil, err
	}

	result := &models.PageResult{
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		TotalItems: total,
		Data:       data,
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.log.Warn("cache write failed", "key", key, "err", err)
	} else {
		s.log.Debug("cache miss, stored", "key", key)
	}
	return result, nil
}

// Get is a direct point lookup, uncached.
func (s *Service) Get(ctx context.Context, id string) (*models.Book, error) {
	return s.store.GetByID(ctx, id)
}

// Create stores a new book and invalidates every cached page.
func (s *Service) Create(ctx context.Context, req *models.CreateBookRequest) (*models.Book, error) {
	book := &models.Book{
		Title:     store.Sanitize(req.Title),
		Author:    store.Sanitize(req.Author),
		Year:      req.Year,
		Thumbnail: store.Sanitize(req.Thumbnail),
	}
	created, err := s.store.Insert(ctx, book)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

// Update applies a partial update and invalidates every cached page.
func (s *Service) Update(ctx context.Context, id string, req *models.UpdateBookRequest) (*models.Book, error) {
	updated, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// Delete removes a book and invalidates every cached page.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// invalidate purges all cached book pages. Best-effort: the store write has
// already committed, so a cache cleanup failure is logged and swallowed
// rather than failing the request. Stale entries die at the TTL regardless.
func (s *Service) invalidate(ctx context.Context) {
	deleted, err := s.cache.DeleteAllMatching(ctx, cache.KeyPattern)
	if err != nil {
		s.log.Warn("cache invalidation failed", "pattern", cache.KeyPattern, "err", err)
		return
	}
	s.log.Debug("cache invalidated", "pattern", cache.KeyPattern, "keys", deleted)
}
