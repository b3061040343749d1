package prefetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quietdesk/studyguard/internal/domain"
)

// DefaultMaxFiles bounds a single scan. Excess files are silently skipped,
// a degrade-gracefully policy rather than a correctness guarantee.
const DefaultMaxFiles = 100

// Analyzer converts a directory of .pf files into a structured execution
// history. One malformed file never fails the whole batch.
type Analyzer struct {
	dir      string
	parser   *Parser
	logger   *zap.Logger
	maxFiles int
}

// NewAnalyzer creates an analyzer over dir.
func NewAnalyzer(dir string, pm domain.ProcessManager, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		dir:      dir,
		parser:   NewParser(pm, logger),
		logger:   logger,
		maxFiles: DefaultMaxFiles,
	}
}

// NewAnalyzerWithLimit creates an analyzer with a custom per-scan file cap.
func NewAnalyzerWithLimit(dir string, pm domain.ProcessManager, logger *zap.Logger, maxFiles int) *Analyzer {
	a := NewAnalyzer(dir, pm, logger)
	a.maxFiles = maxFiles
	return a
}

// List scans the prefetch directory and returns records sorted by most
// recent execution. A missing directory is NotFound (feature unavailable on
// this system, not fatal); access errors are PermissionDenied so the caller
// can prompt for elevation.
func (a *Analyzer) List(ctx context.Context) (*domain.ScanResult, error) {
	if _, err := os.Stat(a.dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("prefetch directory %s: %w", a.dir, domain.ErrNotFound)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("prefetch directory %s: %w", a.dir, domain.ErrPermissionDenied)
		}
		return nil, fmt.Errorf("prefetch directory %s: %v: %w", a.dir, err, domain.ErrPermissionDenied)
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %v: %w", a.dir, err, domain.ErrPermissionDenied)
	}

	var pfEntries []os.DirEntry
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pf") {
			continue
		}
		pfEntries = append(pfEntries, entry)
	}

	result := &domain.ScanResult{TotalFilesFound: len(pfEntries)}
	if len(pfEntries) == 0 {
		result.Note = "no prefetch files found; prefetch may be disabled on this system"
		return result, nil
	}

	if len(pfEntries) > a.maxFiles {
		a.logger.Info("capping prefetch scan",
			zap.Int("found", len(pfEntries)),
			zap.Int("limit", a.maxFiles))
		pfEntries = pfEntries[:a.maxFiles]
	}

	for _, entry := range pfEntries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		record, err := a.parseEntry(entry)
		if err != nil {
			a.logger.Warn("skipping prefetch file",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}
		result.Records = append(result.Records, *record)
	}
	result.ProcessedCount = len(result.Records)

	// Most recently executed first. Stable so equal timestamps keep the
	// directory enumeration order across repeated calls.
	sort.SliceStable(result.Records, func(i, j int) bool {
		return result.Records[i].LastRun().After(result.Records[j].LastRun())
	})

	return result, nil
}

func (a *Analyzer) parseEntry(entry os.DirEntry) (*domain.PrefetchRecord, error) {
	path := filepath.Join(a.dir, entry.Name())

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	meta := FileMeta{Size: int64(len(buf))}
	if info, err := entry.Info(); err == nil {
		meta.Size = info.Size()
		meta.Modified = info.ModTime()
		// Creation time is not portably available; last-write is the
		// closest stand-in.
		meta.Created = info.ModTime()
	}

	return a.parser.ParseRecord(buf, entry.Name(), meta)
}
