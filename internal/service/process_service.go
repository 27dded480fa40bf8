package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"calyrec/internal/config"
	"calyrec/internal/dataset"
	"calyrec/internal/domain"
	"calyrec/internal/port"
	"calyrec/internal/resolver"
)

// ProcessService runs the per-date pipeline: load the reference chain,
// resolve the primary dataset, write the output and exception artifacts,
// back up the input and record the run.
type ProcessService interface {
	ProcessDate(ctx context.Context, token string) (*domain.RunSummary, error)
}

type processService struct {
	cfg      *config.Config
	reader   *dataset.Reader
	writer   *dataset.Writer
	excLog   *ExceptionLog
	runRepo  port.RunRepository
	storage  port.ObjectStorage
	notifier port.Notifier
	observer port.ResolutionObserver
	log      *zap.Logger
}

// NewProcessService creates a ProcessService. runRepo and storage may be nil
// when the run ledger or the archive mirror is disabled.
func NewProcessService(
	cfg *config.Config,
	runRepo port.RunRepository,
	storage port.ObjectStorage,
	notifier port.Notifier,
	observer port.ResolutionObserver,
	log *zap.Logger,
) ProcessService {
	sep := cfg.Process.SeparatorRune()
	return &processService{
		cfg:    cfg,
		reader: dataset.NewReader(sep),
		writer: dataset.NewWriter(sep),
		// One exception log for every date; parallel runs serialize on it.
		excLog:   NewExceptionLog(filepath.Join(cfg.Dirs.Logs, ExceptionLogFile)),
		runRepo:  runRepo,
		storage:  storage,
		notifier: notifier,
		observer: observer,
		log:      log,
	}
}

func (s *processService) ProcessDate(ctx context.Context, token string) (*domain.RunSummary, error) {
	started := time.Now()
	primaryName := s.cfg.Primary.FileName(token)

	date, err := domain.ExpandDateToken(token)
	if err != nil {
		s.recordFailure(ctx, token, primaryName, started, err)
		return nil, fmt.Errorf("processService.ProcessDate: %w", err)
	}

	primaryPath := filepath.Join(s.cfg.Dirs.Data, primaryName)
	if _, err := os.Stat(primaryPath); err != nil {
		err = fmt.Errorf("%w: %s", domain.ErrPrimaryNotFound, primaryPath)
		s.recordFailure(ctx, token, primaryName, started, err)
		return nil, fmt.Errorf("processService.ProcessDate: %w", err)
	}

	s.log.Info("run started",
		zap.String("token", token),
		zap.String("primary", primaryPath),
	)

	chain := s.loadChain(date)

	ds, err := s.reader.ReadFile(primaryPath)
	if err != nil {
		s.recordFailure(ctx, token, primaryName, started, err)
		return nil, fmt.Errorf("processService.ProcessDate: %w", err)
	}
	if ds.Empty() {
		err := fmt.Errorf("%w: %s", domain.ErrEmptyDataset, primaryPath)
		s.recordFailure(ctx, token, primaryName, started, err)
		return nil, fmt.Errorf("processService.ProcessDate: %w", err)
	}

	res := resolver.NewResolver(chain, resolver.Config{
		KeyColumn:    s.cfg.Primary.KeyColumn,
		TargetColumn: s.cfg.Primary.TargetColumn,
		Sentinel:     s.cfg.Process.Sentinel,
	}, s.observer)
	report := res.ResolveAll(ds.Rows)

	outPath := filepath.Join(s.cfg.Dirs.Output, primaryName)
	if err := s.writer.WriteFile(outPath, ds); err != nil {
		s.recordFailure(ctx, token, primaryName, started, err)
		return nil, fmt.Errorf("processService.ProcessDate: %w", err)
	}

	if err := s.excLog.Append(report.Misses); err != nil {
		s.recordFailure(ctx, token, primaryName, started, err)
		return nil, fmt.Errorf("processService.ProcessDate: %w", err)
	}

	if err := copyFile(primaryPath, filepath.Join(s.cfg.Dirs.Backup, primaryName)); err != nil {
		s.log.Warn("backup copy failed",
			zap.String("file", primaryName),
			zap.Error(err),
		)
	}

	finished := time.Now()
	summary := &domain.RunSummary{
		DateToken:     token,
		PrimaryFile:   primaryPath,
		OutputFile:    outPath,
		Total:         report.Total,
		Matched:       report.Matched,
		Unmatched:     report.Unmatched,
		UnmatchedKeys: report.UnmatchedKeys(s.cfg.Process.SampleKeys),
		Duration:      finished.Sub(started),
	}

	s.log.Info("run complete",
		zap.String("token", token),
		zap.Int("total", report.Total),
		zap.Int("matched", report.Matched),
		zap.Int("unmatched", report.Unmatched),
		zap.Duration("duration", summary.Duration),
		zap.String("output", outPath),
		zap.String("exceptions", s.excLog.Path()),
	)

	s.recordRun(ctx, &domain.Run{
		ID:          uuid.New(),
		DateToken:   token,
		PrimaryFile: primaryName,
		Total:       report.Total,
		Matched:     report.Matched,
		Unmatched:   report.Unmatched,
		Status:      domain.RunStatusCompleted,
		StartedAt:   started,
		FinishedAt:  finished,
	})

	s.archive(ctx, token, outPath, s.excLog.Path())

	if err := s.notifier.SendRunReport(ctx, *summary); err != nil {
		s.log.Warn("run report delivery failed", zap.Error(err))
	}

	return summary, nil
}

// loadChain reads every configured reference table for the given expanded
// date. A table that cannot be read leaves a nil slot in the chain, so the
// run degrades to later tables instead of failing.
func (s *processService) loadChain(date string) *resolver.Chain {
	refs := s.cfg.Chain.Ordered()
	tables := make([]*resolver.Table, len(refs))
	for i, ref := range refs {
		path := filepath.Join(s.cfg.Dirs.Data, ref.FileName(date))
		ds, err := s.reader.ReadFile(path)
		if err != nil {
			s.log.Warn("reference table unavailable",
				zap.String("table", ref.Label),
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		tables[i] = resolver.BuildTable(ds.Rows, ref.KeyColumn, ref.ValueColumn, ref.Label)
		s.log.Info("reference table loaded",
			zap.String("table", ref.Label),
			zap.Int("keys", tables[i].Len()),
		)
	}
	return resolver.NewChain(tables...)
}

// archive mirrors the run artifacts to object storage. Uploads are best
// effort; a failure is logged and never fails the run.
func (s *processService) archive(ctx context.Context, token, outPath, excPath string) {
	if s.storage == nil {
		return
	}
	for _, path := range []string{outPath, excPath} {
		f, err := os.Open(path)
		if err != nil {
			s.log.Warn("archive upload skipped",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		contentType := "text/csv"
		if filepath.Ext(path) == ".txt" {
			contentType = "text/plain"
		}
		key := s.cfg.S3.KeyPrefix + "/" + token + "/" + filepath.Base(path)
		_, err = s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.S3.Bucket,
			Key:         key,
			Body:        f,
			ContentType: contentType,
		})
		_ = f.Close()
		if err != nil {
			s.log.Warn("archive upload failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

func (s *processService) recordRun(ctx context.Context, run *domain.Run) {
	if s.runRepo == nil {
		return
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.log.Warn("run ledger write failed", zap.Error(err))
	}
}

func (s *processService) recordFailure(ctx context.Context, token, primaryName string, started time.Time, cause error) {
	s.recordRun(ctx, &domain.Run{
		ID:          uuid.New(),
		DateToken:   token,
		PrimaryFile: primaryName,
		Status:      domain.RunStatusFailed,
		Error:       cause.Error(),
		StartedAt:   started,
		FinishedAt:  time.Now(),
	})
}

// EnsureDirs creates the working directory layout expected by a run.
func EnsureDirs(dirs config.DirsConfig) error {
	for _, dir := range []string{dirs.Data, dirs.Backup, dirs.Output, dirs.Logs} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("service.EnsureDirs: %w", err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
