// Package journal wires classification, storage and aggregation into the
// operations exposed to the HTTP and CLI layers.
package journal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/anger-log/internal/distortion"
	"github.com/rcliao/anger-log/internal/model"
	"github.com/rcliao/anger-log/internal/stats"
	"github.com/rcliao/anger-log/internal/store"
)

// Service is the journal core. It is safe for concurrent use when its
// store is.
type Service struct {
	store      store.Store
	classifier *distortion.Classifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewService returns a service over s. A nil classifier uses the default
// catalog; a nil logger discards output.
func NewService(s store.Store, c *distortion.Classifier, logger *zap.Logger) *Service {
	if c == nil {
		c = distortion.NewClassifier(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: s, classifier: c, logger: logger, now: time.Now}
}

// Create validates the candidate, classifies its text fields and stores
// the enriched record.
func (s *Service) Create(ctx context.Context, c model.Candidate) (*model.Record, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	findings := s.classifier.Classify(c.Thoughts, c.Situation, c.Evidence)
	rec, err := s.store.Create(ctx, c.Record(findings))
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	s.logger.Debug("record created",
		zap.Int64("id", rec.ID),
		zap.String("date", rec.Date),
		zap.Int("distortions", len(rec.DetectedDistortions)))
	return rec, nil
}

// List returns one page of records, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]model.Record, error) {
	if limit < 0 || offset < 0 {
		v := &ValidationError{}
		if limit < 0 {
			v.add("limit", "must be non-negative, got %d", limit)
		}
		if offset < 0 {
			v.add("offset", "must be non-negative, got %d", offset)
		}
		return nil, v
	}
	return s.store.List(ctx, store.ListParams{Limit: limit, Offset: offset})
}

// Get returns the record with the given id, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*model.Record, error) {
	return s.store.Get(ctx, id)
}

// Range returns records dated within [startDate, endDate].
func (s *Service) Range(ctx context.Context, startDate, endDate string) ([]model.Record, error) {
	start, err := ParseDate("startDate", startDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate("endDate", endDate)
	if err != nil {
		return nil, err
	}
	return s.store.ListByDateRange(ctx, start, end)
}

// Stats computes the summary report over a snapshot of all records.
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot records: %w", err)
	}
	st := stats.Compute(records, s.now())
	return &st, nil
}

// Trends computes the daily mood and emotion breakdowns.
func (s *Service) Trends(ctx context.Context) (*model.Trends, error) {
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot records: %w", err)
	}
	tr := stats.Trends(records)
	return &tr, nil
}

// Analyze classifies text without storing anything.
func (s *Service) Analyze(thoughts, situation, evidence string) []model.Finding {
	return s.classifier.Classify(thoughts, situation, evidence)
}

// Export returns every record in id order.
func (s *Service) Export(ctx context.Context) ([]model.Record, error) {
	return s.store.All(ctx)
}

// Import stores previously exported records with fresh ids. Every record
// is validated first; if any is rejected nothing is stored and the
// returned *ValidationError names fields as records[i].<field>.
func (s *Service) Import(ctx context.Context, records []model.Record) (int, error) {
	if err := validateImport(records); err != nil {
		return 0, err
	}
	n, err := store.Import(ctx, s.store, records)
	if err != nil {
		return n, err
	}
	s.logger.Info("records imported", zap.Int("count", n))
	return n, nil
}

// Categories describes the catalog entries in evaluation order.
func (s *Service) Categories() []Category {
	entries := s.classifier.Catalog().Entries()
	out := make([]Category, len(entries))
	for i, e := range entries {
		out[i] = Category{
			Type:        e.Type,
			Label:       model.DistortionLabel(e.Type),
			Description: e.Description,
			Suggestion:  e.Suggestion,
		}
	}
	return out
}

// Category is a catalog entry as shown to clients.
type Category struct {
	Type        model.DistortionType `json:"type"`
	Label       string               `json:"label"`
	Description string               `json:"description"`
	Suggestion  string               `json:"suggestion"`
}
