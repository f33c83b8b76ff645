package backup

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

// archiveEntry is what the tests care about in a tar header.
type archiveEntry struct {
	Type     byte
	Content  string
	Linkname string
}

// decompress wraps r in the reader matching mode.
func decompress(r io.Reader, mode string) (io.Reader, error) {
	switch mode {
	case ModeStore:
		return r, nil
	case ModeGzip:
		return pgzip.NewReader(r)
	case ModeBzip2:
		return bzip2.NewReader(r, nil)
	case ModeXz:
		return xz.NewReader(r)
	case ModeZstd:
		return zstd.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown compression: %s", mode)
	}
}

// readTarEntries returns entry name -> entry for every header in the stream.
func readTarEntries(r io.Reader, mode string) (map[string]archiveEntry, error) {
	decompressed, err := decompress(r, mode)
	if err != nil {
		return nil, err
	}
	tr := tar.NewReader(decompressed)
	found := make(map[string]archiveEntry)
	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		found[h.Name] = archiveEntry{
			Type:     h.Typeflag,
			Content:  string(content),
			Linkname: h.Linkname,
		}
	}
	return found, nil
}

func readArchive(t *testing.T, path, mode string) map[string]archiveEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	found, err := readTarEntries(f, mode)
	require.NoError(t, err)
	return found
}

// chdir changes the working directory to dir for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
