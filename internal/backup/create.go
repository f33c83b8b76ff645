package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hinkolas/hmb/internal/tui"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// timestampLayout is HHMMSS_YYYYMMDD. Two runs within the same second with
// the same prefix target the same file, the later one overwrites it.
const timestampLayout = "150405_20060102"

// Builder turns a configuration file into one archive on disk.
type Builder struct {
	fs     afero.Fs
	now    func() time.Time
	report *tui.Reporter
	logger *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithFs sets the filesystem used for the configuration, the items and the
// archive itself.
func WithFs(fs afero.Fs) Option {
	return func(b *Builder) {
		b.fs = fs
	}
}

// WithClock replaces time.Now for archive naming.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithReporter sets where the per-item status lines are printed.
func WithReporter(r *tui.Reporter) Option {
	return func(b *Builder) {
		b.report = r
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder returns a Builder working on the OS filesystem, reporting to
// stdout and logging nothing unless a logger is given.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		fs:     afero.NewOsFs(),
		now:    time.Now,
		report: tui.NewReporter(os.Stdout),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create creates a backup archive from the configuration at configPath and
// returns the path of the written archive.
//
// ErrConfigMissing and ErrUnsupportedMode are returned before anything is
// created. Every other failure is a *FatalError and may leave an incomplete
// archive behind.
func (b *Builder) Create(configPath string) (string, error) {
	config, err := LoadConfig(b.fs, configPath)
	if err != nil {
		return "", err
	}

	mode, err := config.String(KeyArchiveType)
	if err != nil {
		return "", fatal("read archive type", err)
	}
	if mode == modeZip {
		return "", ErrUnsupportedMode
	}

	prefix, err := config.String(KeyArchivePrefix)
	if err != nil {
		return "", fatal("read archive prefix", err)
	}
	filename := generateFilename(prefix, mode, b.now())

	destDir, err := config.String(KeyArchiveDestination)
	if err != nil {
		return "", fatal("read archive destination", err)
	}
	if err := b.prepareDestination(destDir); err != nil {
		return "", fatal("create destination", err)
	}

	archivePath := filepath.Join(destDir, filename)

	writer, err := newArchiveWriter(b.fs, archivePath, mode)
	if err != nil {
		return "", fatal("open archive", fmt.Errorf("failed to create archive %s: %w", archivePath, err))
	}
	b.logger.Debug("archive opened", zap.String("path", archivePath), zap.String("mode", mode))

	if err := b.backupItems(config, writer, archivePath); err != nil {
		return "", errors.Join(err, writer.Close())
	}

	if err := writer.Close(); err != nil {
		return "", fatal("close archive", err)
	}

	return archivePath, nil
}

// prepareDestination creates dir if it is missing. Only the last path
// element is created; a missing parent is an error.
func (b *Builder) prepareDestination(dir string) error {
	_, err := b.fs.Stat(dir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	b.logger.Debug("creating destination directory", zap.String("path", dir))
	return b.fs.Mkdir(dir, 0755)
}

func generateFilename(prefix, mode string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format(timestampLayout), Extension(mode))
}
