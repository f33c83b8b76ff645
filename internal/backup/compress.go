package backup

import (
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

// Mode tokens accepted in archive_type. The token doubles as the file
// extension suffix after ".tar".
const (
	// ModeStore writes an uncompressed tar. Its archives are named ".tar",
	// with no trailing dot.
	ModeStore = ""
	ModeGzip  = "gz"
	ModeBzip2 = "bz2"
	ModeXz    = "xz"
	ModeZstd  = "zst"

	modeZip = "zip"
)

// codec wraps the archive file in a compressing writer.
type codec func(w io.Writer) (io.WriteCloser, error)

var codecs = map[string]codec{
	ModeStore: func(w io.Writer) (io.WriteCloser, error) {
		return nopWriteCloser{w}, nil
	},
	ModeGzip: func(w io.Writer) (io.WriteCloser, error) {
		gw, err := pgzip.NewWriterLevel(w, pgzip.DefaultCompression)
		if err != nil {
			return nil, err
		}
		// 1MB blocks, one at a time
		if err := gw.SetConcurrency(1<<20, 1); err != nil {
			return nil, err
		}
		return gw, nil
	},
	ModeBzip2: func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	},
	ModeXz: func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	},
	ModeZstd: func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	},
}

func lookupCodec(mode string) (codec, error) {
	c, ok := codecs[mode]
	if !ok {
		return nil, fmt.Errorf("unknown compression type %q", mode)
	}
	return c, nil
}

// Extension returns the archive file extension for a mode token, without
// the leading dot.
func Extension(mode string) string {
	if mode == ModeStore {
		return "tar"
	}
	return "tar." + mode
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
