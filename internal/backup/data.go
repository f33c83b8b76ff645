package backup

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ArchiveWriter wraps tar.Writer with compression
type ArchiveWriter struct {
	tar  *tar.Writer
	comp io.WriteCloser
	file afero.File
	path string      // absolute path of the archive
	info os.FileInfo // may be nil if the fs cannot stat open files
}

// newArchiveWriter resolves the codec for mode and creates the archive file.
// An unknown mode fails before anything is written.
func newArchiveWriter(fsys afero.Fs, path, mode string) (*ArchiveWriter, error) {
	newCodec, err := lookupCodec(mode)
	if err != nil {
		return nil, err
	}

	file, err := fsys.Create(path)
	if err != nil {
		return nil, err
	}

	comp, err := newCodec(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = filepath.Clean(path)
	}
	info, _ := file.Stat()

	return &ArchiveWriter{
		tar:  tar.NewWriter(comp),
		comp: comp,
		file: file,
		path: absPath,
		info: info,
	}, nil
}

// isSelf reports whether p (with lstat info) is the archive being written.
func (w *ArchiveWriter) isSelf(p string, info os.FileInfo) bool {
	if w.info != nil && info != nil && os.SameFile(w.info, info) {
		return true
	}
	absPath, err := filepath.Abs(p)
	if err != nil {
		return false
	}
	return absPath == w.path
}

func (w *ArchiveWriter) Close() error {
	return errors.Join(
		w.tar.Close(),
		w.comp.Close(),
		w.file.Close(),
	)
}

func (w *ArchiveWriter) WriteHeader(hdr *tar.Header) error {
	return w.tar.WriteHeader(hdr)
}

func (w *ArchiveWriter) Write(p []byte) (int, error) {
	return w.tar.Write(p)
}

// backupItems adds every existing item to the archive in configured order.
// Items that do not exist are reported and skipped.
func (b *Builder) backupItems(config *Config, w *ArchiveWriter, archivePath string) error {
	items, err := config.Strings(KeyItems)
	if err != nil {
		return fatal("read items", err)
	}

	for _, item := range items {
		itemPath := filepath.Clean(item)

		exists, err := b.exists(itemPath)
		if err != nil {
			return fatal("stat item", err)
		}
		if !exists {
			b.report.Missing(itemPath)
			continue
		}

		if err := b.addItem(w, itemPath); err != nil {
			return fatal("add item", fmt.Errorf("failed to write %s: %w", itemPath, err))
		}
		b.report.Added(itemPath, archivePath)
	}

	return nil
}

// exists follows symlinks, so a dangling or looping link counts as missing.
func (b *Builder) exists(path string) (bool, error) {
	_, err := b.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ENOTDIR), errors.Is(err, syscall.ELOOP):
		return false, nil
	default:
		return false, err
	}
}

// addItem writes item and, for directories, everything below it.
func (b *Builder) addItem(w *ArchiveWriter, item string) error {
	name := entryName(item)

	return afero.Walk(b.fs, item, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(item, p)
		if err != nil {
			return err
		}

		entry := name
		if relPath != "." {
			entry = path.Join(name, filepath.ToSlash(relPath))
		}

		return b.writeEntry(w, p, entry, info)
	})
}

func (b *Builder) writeEntry(w *ArchiveWriter, p, name string, info os.FileInfo) error {
	if name == "" {
		// filesystem root, children still get written
		return nil
	}

	if w.isSelf(p, info) {
		b.logger.Debug("skipping archive being written", zap.String("path", p))
		return nil
	}

	if info.Mode()&os.ModeSocket != 0 {
		b.logger.Debug("skipping socket", zap.String("path", p))
		return nil
	}

	var link string
	if info.Mode()&os.ModeSymlink != 0 {
		lr, ok := b.fs.(afero.LinkReader)
		if !ok {
			return fmt.Errorf("filesystem %s cannot read symlink %s", b.fs.Name(), p)
		}
		target, err := lr.ReadlinkIfPossible(p)
		if err != nil {
			return err
		}
		link = target
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}

	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	hdr.Format = tar.FormatPAX

	b.logger.Debug("writing entry", zap.String("name", hdr.Name), zap.Int64("size", hdr.Size))

	if err := w.WriteHeader(hdr); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		if err := copyFileToArchive(b.fs, w, p); err != nil {
			return err
		}
	}

	return nil
}

func copyFileToArchive(fsys afero.Fs, w io.Writer, path string) error {
	file, err := fsys.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}

// entryName maps an item path to its name inside the archive: forward
// slashes, no leading slash.
func entryName(item string) string {
	name := filepath.ToSlash(filepath.Clean(item))
	if vol := filepath.VolumeName(item); vol != "" {
		name = strings.TrimPrefix(name, filepath.ToSlash(vol))
	}
	return strings.TrimLeft(name, "/")
}
