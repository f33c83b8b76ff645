package backup

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{mode: ModeStore, want: "tar"},
		{mode: ModeGzip, want: "tar.gz"},
		{mode: ModeBzip2, want: "tar.bz2"},
		{mode: ModeXz, want: "tar.xz"},
		{mode: ModeZstd, want: "tar.zst"},
		{mode: "lz4", want: "tar.lz4"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.mode))
		})
	}
}

func TestCodecs_RoundTrip(t *testing.T) {
	for _, mode := range []string{ModeStore, ModeGzip, ModeBzip2, ModeXz, ModeZstd} {
		t.Run(Extension(mode), func(t *testing.T) {
			newCodec, err := lookupCodec(mode)
			require.NoError(t, err)

			var buf bytes.Buffer
			comp, err := newCodec(&buf)
			require.NoError(t, err)

			content := "compressed with " + Extension(mode)
			tw := tar.NewWriter(comp)
			require.NoError(t, tw.WriteHeader(&tar.Header{
				Name:     "file.txt",
				Mode:     0644,
				Size:     int64(len(content)),
				Typeflag: tar.TypeReg,
			}))
			_, err = tw.Write([]byte(content))
			require.NoError(t, err)
			require.NoError(t, tw.Close())
			require.NoError(t, comp.Close())

			found, err := readTarEntries(&buf, mode)
			require.NoError(t, err)
			assert.Len(t, found, 1)
			assert.Equal(t, content, found["file.txt"].Content)
		})
	}
}

func TestLookupCodec_Unknown(t *testing.T) {
	for _, mode := range []string{"lz4", "gzip", "zip", "GZ"} {
		_, err := lookupCodec(mode)
		assert.Error(t, err, "mode %q", mode)
	}
}
