package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"calyrec/internal/domain"
)

// BatchResult reports the outcome of one per-date run inside a batch.
type BatchResult struct {
	Token   string
	Summary *domain.RunSummary
	Err     error
}

// BatchService fans ProcessDate out over the dated files in the data
// directory.
type BatchService interface {
	ProcessAll(ctx context.Context) ([]BatchResult, error)
	ProcessLatest(ctx context.Context) (*domain.RunSummary, error)
}

type batchService struct {
	discovery   *Discovery
	processor   ProcessService
	concurrency int
	log         *zap.Logger
}

// NewBatchService creates a BatchService running at most concurrency runs in
// parallel. Values below one are treated as one.
func NewBatchService(discovery *Discovery, processor ProcessService, concurrency int, log *zap.Logger) BatchService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &batchService{
		discovery:   discovery,
		processor:   processor,
		concurrency: concurrency,
		log:         log,
	}
}

// ProcessAll runs every discovered dated file. A failed run is reported in
// its BatchResult and never stops the remaining runs; the returned error
// covers only discovery itself.
func (s *batchService) ProcessAll(ctx context.Context) ([]BatchResult, error) {
	files, err := s.discovery.List()
	if err != nil {
		return nil, fmt.Errorf("batchService.ProcessAll: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("batchService.ProcessAll: %w", domain.ErrNoDatedFiles)
	}

	results := make([]BatchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			summary, err := s.processor.ProcessDate(gctx, f.Token)
			if err != nil {
				s.log.Error("run failed",
					zap.String("token", f.Token),
					zap.Error(err),
				)
			}
			results[i] = BatchResult{Token: f.Token, Summary: summary, Err: err}
			return nil
		})
	}
	// Workers always return nil so one bad file cannot cancel the rest.
	_ = g.Wait()
	return results, nil
}

// ProcessLatest runs the most recent dated file.
func (s *batchService) ProcessLatest(ctx context.Context) (*domain.RunSummary, error) {
	latest, err := s.discovery.Latest()
	if err != nil {
		return nil, err
	}
	return s.processor.ProcessDate(ctx, latest.Token)
}
