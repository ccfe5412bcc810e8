package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ceylonworkforce/jobboard/internal/apperrors"
	"github.com/ceylonworkforce/jobboard/internal/config"
	"github.com/ceylonworkforce/jobboard/internal/jobs"
	"github.com/ceylonworkforce/jobboard/internal/models"
)

// Importer stores feed items, skipping ones imported before
type Importer interface {
	Import(ctx context.Context, source, externalID string, in jobs.PostInput) (*models.Job, bool, error)
}

// FeedItem is one job in the partner feed
type FeedItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	JobType     string   `json:"jobType"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Salary      string   `json:"salary"`
}

// Result summarises one import run
type Result struct {
	Fetched  int
	Imported int
	Skipped  int
	Invalid  int
}

// Service imports job postings from a partner JSON feed on an interval
type Service struct {
	config     config.FeedConfig
	importer   Importer
	logger     *zap.Logger
	httpClient *http.Client
	backoff    func(attempt int) time.Duration
}

// NewService creates a new feed ingestion service
func NewService(cfg config.FeedConfig, importer Importer, logger *zap.Logger) *Service {
	return &Service{
		config:   cfg,
		importer: importer,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		backoff: func(attempt int) time.Duration {
			return time.Duration(attempt+1) * time.Second
		},
	}
}

// Start imports once, then again on every interval until ctx is done
func (s *Service) Start(ctx context.Context) error {
	if s.config.Interval <= 0 {
		return fmt.Errorf("invalid feed interval %s", s.config.Interval)
	}

	if _, err := s.IngestData(ctx); err != nil {
		s.logger.Error("initial feed import failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.IngestData(ctx); err != nil {
				s.logger.Error("feed import failed", zap.Error(err))
			}
		}
	}
}

// IngestData fetches the feed and imports every item. Items rejected by
// validation are counted and skipped; other errors abort the run.
func (s *Service) IngestData(ctx context.Context) (Result, error) {
	items, err := s.fetchItems(ctx)
	if err != nil {
		return Result{}, apperrors.Unavailable("fetching job feed", err)
	}

	res := Result{Fetched: len(items)}
	for _, item := range items {
		if item.ID == "" {
			res.Invalid++
			continue
		}
		_, created, err := s.importer.Import(ctx, s.config.URL, item.ID, s.toPostInput(item))
		switch {
		case err == nil && created:
			res.Imported++
		case err == nil:
			res.Skipped++
		case apperrors.Is(err, apperrors.ErrTypeInvalidInput):
			s.logger.Debug("feed item rejected", zap.String("external_id", item.ID), zap.Error(err))
			res.Invalid++
		default:
			return res, err
		}
	}

	s.logger.Info("job feed imported",
		zap.Int("fetched", res.Fetched),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("invalid", res.Invalid))
	return res, nil
}

func (s *Service) toPostInput(item FeedItem) jobs.PostInput {
	return jobs.PostInput{
		EmployerID:  s.config.EmployerID,
		Title:       item.Title,
		Company:     item.Company,
		Location:    item.Location,
		JobType:     models.JobType(item.JobType),
		Description: item.Description,
		Skills:      item.Skills,
		Salary:      item.Salary,
	}
}

// fetchItems fetches the feed with linear backoff between attempts
func (s *Service) fetchItems(ctx context.Context) ([]FeedItem, error) {
	attempts := max(s.config.RetryCount, 1)
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		items, err := s.fetchOnce(ctx)
		if err == nil {
			return items, nil
		}

		lastErr = err
		s.logger.Warn("feed fetch attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
		if attempt < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (s *Service) fetchOnce(ctx context.Context) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var items []FeedItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed: %w", err)
	}
	return items, nil
}
