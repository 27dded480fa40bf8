package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"calyrec/internal/config"
	"calyrec/internal/domain"
	"calyrec/internal/email/noop"
	"calyrec/internal/port"
	"calyrec/mocks"
)

// testConfig builds a config rooted in a temp directory, with small column
// positions so fixture files stay readable.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	root := t.TempDir()
	cfg.Dirs = config.DirsConfig{
		Data:   filepath.Join(root, "data"),
		Backup: filepath.Join(root, "BK"),
		Output: filepath.Join(root, "procesados"),
		Logs:   filepath.Join(root, "logs"),
	}
	require.NoError(t, EnsureDirs(cfg.Dirs))

	cfg.Primary.KeyColumn = 1
	cfg.Primary.TargetColumn = 2
	cfg.Chain = config.ChainConfig{
		First:  config.ReferenceConfig{Label: "fwd_div", FilePrefix: "fwd_div_Calypso_", Extension: "csv", KeyColumn: 0, ValueColumn: 1},
		Second: config.ReferenceConfig{Label: "fwd_usd", FilePrefix: "fwd_usd_Calypso_", Extension: "csv", KeyColumn: 0, ValueColumn: 1},
		Third:  config.ReferenceConfig{Label: "liquidaciones", FilePrefix: "LIQUIDACIONES_", Extension: "csv", KeyColumn: 0, ValueColumn: 1},
	}
	return cfg
}

func writeCSV(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestProcessService_ProcessDate_FullRun(t *testing.T) {
	cfg := testConfig(t)

	writeCSV(t, filepath.Join(cfg.Dirs.Data, "VIG_TRANSACI_CALYPSO_D250807.csv"),
		"id;clave;contraparte",
		"T1;0045;pendiente",
		"T2;99;pendiente",
		"T3;7;pendiente",
	)
	writeCSV(t, filepath.Join(cfg.Dirs.Data, "fwd_div_Calypso_20250807.csv"),
		"clave;valor",
		"45;BANCO DIV",
	)
	// fwd_usd is intentionally absent; the chain must degrade past it.
	writeCSV(t, filepath.Join(cfg.Dirs.Data, "LIQUIDACIONES_20250807.csv"),
		"clave;valor",
		"7;BANCO LIQ",
	)

	repo := new(mocks.MockRunRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(run *domain.Run) bool {
		return run.Status == domain.RunStatusCompleted &&
			run.DateToken == "D250807" &&
			run.Total == 3 && run.Matched == 2 && run.Unmatched == 1
	})).Return(nil).Once()

	notifier := new(mocks.MockNotifier)
	notifier.On("SendRunReport", mock.Anything, mock.AnythingOfType("domain.RunSummary")).Return(nil).Once()

	svc := NewProcessService(cfg, repo, nil, notifier, nil, zap.NewNop())
	summary, err := svc.ProcessDate(context.Background(), "D250807")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, summary.Unmatched)
	assert.Equal(t, []string{"99"}, summary.UnmatchedKeys)

	out, err := os.ReadFile(summary.OutputFile)
	require.NoError(t, err)
	assert.Equal(t,
		"id;clave;contraparte\nT1;0045;BANCO DIV\nT2;99;no encontrado\nT3;7;BANCO LIQ\n",
		string(out))

	exc, err := os.ReadFile(filepath.Join(cfg.Dirs.Logs, "log_no_encontrados.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Fila 3: Valor no encontrado: 99\n", string(exc))

	backup, err := os.ReadFile(filepath.Join(cfg.Dirs.Backup, "VIG_TRANSACI_CALYPSO_D250807.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(backup), "T1;0045;pendiente")

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestProcessService_ProcessDate_PrimaryMissing(t *testing.T) {
	cfg := testConfig(t)

	repo := new(mocks.MockRunRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(run *domain.Run) bool {
		return run.Status == domain.RunStatusFailed && run.Error != ""
	})).Return(nil).Once()

	svc := NewProcessService(cfg, repo, nil, noop.NewNoopNotifier(), nil, zap.NewNop())
	_, err := svc.ProcessDate(context.Background(), "D250807")
	assert.ErrorIs(t, err, domain.ErrPrimaryNotFound)
	repo.AssertExpectations(t)
}

func TestProcessService_ProcessDate_EmptyPrimary(t *testing.T) {
	cfg := testConfig(t)
	writeCSV(t, filepath.Join(cfg.Dirs.Data, cfg.Primary.FileName("D250807")),
		"id;clave;contraparte",
	)

	svc := NewProcessService(cfg, nil, nil, noop.NewNoopNotifier(), nil, zap.NewNop())
	_, err := svc.ProcessDate(context.Background(), "D250807")
	assert.ErrorIs(t, err, domain.ErrEmptyDataset)
}

func TestProcessService_ProcessDate_InvalidToken(t *testing.T) {
	cfg := testConfig(t)

	svc := NewProcessService(cfg, nil, nil, noop.NewNoopNotifier(), nil, zap.NewNop())
	_, err := svc.ProcessDate(context.Background(), "20250807")
	assert.ErrorIs(t, err, domain.ErrInvalidDateToken)
}

func TestProcessService_ProcessDate_AllReferencesMissing(t *testing.T) {
	cfg := testConfig(t)
	writeCSV(t, filepath.Join(cfg.Dirs.Data, cfg.Primary.FileName("D250807")),
		"id;clave;contraparte",
		"T1;45;pendiente",
	)

	svc := NewProcessService(cfg, nil, nil, noop.NewNoopNotifier(), nil, zap.NewNop())
	summary, err := svc.ProcessDate(context.Background(), "D250807")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Matched)
	assert.Equal(t, 1, summary.Unmatched)

	out, err := os.ReadFile(summary.OutputFile)
	require.NoError(t, err)
	assert.Equal(t, "id;clave;contraparte\nT1;45;no encontrado\n", string(out))
}

func TestProcessService_ProcessDate_ArchiveUploads(t *testing.T) {
	cfg := testConfig(t)
	cfg.S3.Bucket = "calyrec-archive"
	cfg.S3.KeyPrefix = "runs"

	writeCSV(t, filepath.Join(cfg.Dirs.Data, cfg.Primary.FileName("D250807")),
		"id;clave;contraparte",
		"T1;45;pendiente",
	)
	writeCSV(t, filepath.Join(cfg.Dirs.Data, "fwd_div_Calypso_20250807.csv"),
		"clave;valor",
		"45;BANCO DIV",
	)

	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "calyrec-archive" &&
			in.Key == "runs/D250807/VIG_TRANSACI_CALYPSO_D250807.csv" &&
			in.ContentType == "text/csv"
	})).Return(&port.UploadOutput{Location: "s3://calyrec-archive"}, nil).Once()
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Key == "runs/D250807/log_no_encontrados.txt" &&
			in.ContentType == "text/plain"
	})).Return(&port.UploadOutput{}, nil).Once()

	svc := NewProcessService(cfg, nil, storage, noop.NewNoopNotifier(), nil, zap.NewNop())
	_, err := svc.ProcessDate(context.Background(), "D250807")
	require.NoError(t, err)
	storage.AssertExpectations(t)
}

func TestProcessService_ProcessDate_UploadFailureDoesNotFailRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.S3.Bucket = "calyrec-archive"

	writeCSV(t, filepath.Join(cfg.Dirs.Data, cfg.Primary.FileName("D250807")),
		"id;clave;contraparte",
		"T1;45;pendiente",
	)

	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket unreachable")).Twice()

	svc := NewProcessService(cfg, nil, storage, noop.NewNoopNotifier(), nil, zap.NewNop())
	summary, err := svc.ProcessDate(context.Background(), "D250807")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	storage.AssertExpectations(t)
}

func TestProcessService_ProcessDate_NotifierFailureDoesNotFailRun(t *testing.T) {
	cfg := testConfig(t)

	writeCSV(t, filepath.Join(cfg.Dirs.Data, cfg.Primary.FileName("D250807")),
		"id;clave;contraparte",
		"T1;45;pendiente",
	)

	notifier := new(mocks.MockNotifier)
	notifier.On("SendRunReport", mock.Anything, mock.Anything).
		Return(errors.New("delivery refused")).Once()

	svc := NewProcessService(cfg, nil, nil, notifier, nil, zap.NewNop())
	_, err := svc.ProcessDate(context.Background(), "D250807")
	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestProcessService_ProcessDate_ObserverReceivesEvents(t *testing.T) {
	cfg := testConfig(t)

	writeCSV(t, filepath.Join(cfg.Dirs.Data, cfg.Primary.FileName("D250807")),
		"id;clave;contraparte",
		"T1;0045;pendiente",
		"T2;99;pendiente",
	)
	writeCSV(t, filepath.Join(cfg.Dirs.Data, "fwd_div_Calypso_20250807.csv"),
		"clave;valor",
		"45;BANCO DIV",
	)

	obs := new(mocks.MockResolutionObserver)
	obs.On("RecordMatched", 0, "45", "BANCO DIV", "fwd_div").Once()
	obs.On("RecordUnmatched", 1, "99").Once()

	svc := NewProcessService(cfg, nil, nil, noop.NewNoopNotifier(), obs, zap.NewNop())
	_, err := svc.ProcessDate(context.Background(), "D250807")
	require.NoError(t, err)
	obs.AssertExpectations(t)
}
