package precompressed_test

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/staticfiles/pkg/precompressed"
)

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected precompressed.Algorithm
	}{
		{"gzip", precompressed.Gzip},
		{".gz", precompressed.Gzip},
		{"GZ", precompressed.Gzip},
		{"br", precompressed.Brotli},
		{"brotli", precompressed.Brotli},
		{"zstd", precompressed.Zstandard},
		{"zst", precompressed.Zstandard},
	}
	for _, tt := range tests {
		alg, err := precompressed.ParseAlgorithm(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, alg, tt.input)
	}

	_, err := precompressed.ParseAlgorithm("deflate")
	assert.ErrorIs(t, err, precompressed.ErrUnsupportedAlgorithm)
}

func TestAlgorithmText(t *testing.T) {
	t.Parallel()

	for _, alg := range precompressed.Algorithms {
		text, err := alg.MarshalText()
		require.NoError(t, err)

		var parsed precompressed.Algorithm
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, alg, parsed)
		assert.True(t, strings.HasPrefix(alg.Extension(), "."))
	}

	_, err := precompressed.Algorithm(0).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Algorithm(0)", precompressed.Algorithm(0).String())
}

func TestAcceptEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header   string
		coding   string
		expected bool
	}{
		{"gzip, deflate, br", "br", true},
		{"gzip, deflate, br", "zstd", false},
		{"GZIP", "gzip", true},
		{"x-gzip", "gzip", true},
		{"br;q=0", "br", false},
		{"br;q=0.0, gzip", "br", false},
		{"*", "zstd", true},
		{"*;q=0", "zstd", false},
		{"*, br;q=0", "br", false},
		{"gzip;q=0.1, *;q=0", "gzip", true},
		{"br;q=abc", "br", false},
		{"br;q=2", "br", false},
		{"br; level=5; q=0.5", "br", true},
		{"", "gzip", false},
		{"identity", "gzip", false},
	}

	for _, tt := range tests {
		t.Run(tt.header+"/"+tt.coding, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, precompressed.ParseAcceptEncoding(tt.header).Accepts(tt.coding))
		})
	}
}

func TestNegotiate(t *testing.T) {
	t.Parallel()

	existing := map[string]bool{
		"/srv/app.js.br":   true,
		"/srv/app.js.gz":   true,
		"/srv/only.css.gz": true,
	}
	probe := func(candidate string) (string, bool) {
		return candidate, existing[candidate]
	}
	order := []precompressed.Algorithm{precompressed.Brotli, precompressed.Gzip}

	t.Run("config_order_wins", func(t *testing.T) {
		t.Parallel()

		d := precompressed.Negotiate("/srv/app.js", "gzip;q=1.0, br;q=0.1", order, probe)
		require.True(t, d.Substituted())
		assert.Equal(t, precompressed.Brotli, d.Algorithm)
		assert.Equal(t, "/srv/app.js.br", d.Path)
		assert.Equal(t, "/srv/app.js", d.Original)
	})

	t.Run("reversed_config_order", func(t *testing.T) {
		t.Parallel()

		d := precompressed.Negotiate("/srv/app.js", "br, gzip", []precompressed.Algorithm{precompressed.Gzip, precompressed.Brotli}, probe)
		assert.Equal(t, precompressed.Gzip, d.Algorithm)
	})

	t.Run("falls_through_missing_sibling", func(t *testing.T) {
		t.Parallel()

		d := precompressed.Negotiate("/srv/only.css", "br, gzip", order, probe)
		assert.Equal(t, precompressed.Gzip, d.Algorithm)
		assert.Equal(t, "/srv/only.css.gz", d.Path)
	})

	t.Run("client_refuses", func(t *testing.T) {
		t.Parallel()

		d := precompressed.Negotiate("/srv/app.js", "br;q=0, identity", order, probe)
		assert.False(t, d.Substituted())
	})

	t.Run("no_sibling", func(t *testing.T) {
		t.Parallel()

		d := precompressed.Negotiate("/srv/plain.txt", "br, gzip", order, probe)
		assert.False(t, d.Substituted())
	})

	t.Run("no_header_or_config", func(t *testing.T) {
		t.Parallel()

		assert.False(t, precompressed.Negotiate("/srv/app.js", "", order, probe).Substituted())
		assert.False(t, precompressed.Negotiate("/srv/app.js", "br", nil, probe).Substituted())
		assert.False(t, precompressed.Negotiate("/srv/app.js", "br", order, nil).Substituted())
	})
}

func TestTransformHeader(t *testing.T) {
	t.Parallel()

	d := precompressed.Decision{Path: "/a.js.br", Original: "/a.js", Algorithm: precompressed.Brotli}

	t.Run("adds_encoding_and_vary", func(t *testing.T) {
		h := d.TransformHeader(http.Header{})
		assert.Equal(t, "br", h.Get("Content-Encoding"))
		assert.Equal(t, "Accept-Encoding", h.Get("Vary"))
	})

	t.Run("merges_existing_vary", func(t *testing.T) {
		h := http.Header{"Vary": {"Origin"}}
		h = d.TransformHeader(h)
		assert.Equal(t, []string{"Origin, Accept-Encoding"}, h.Values("Vary"))
	})

	t.Run("does_not_duplicate", func(t *testing.T) {
		h := http.Header{"Vary": {"accept-encoding, Origin"}}
		h = d.TransformHeader(h)
		assert.Equal(t, []string{"accept-encoding, Origin"}, h.Values("Vary"))
	})

	t.Run("wildcard_vary", func(t *testing.T) {
		h := http.Header{"Vary": {"*"}}
		h = d.TransformHeader(h)
		assert.Equal(t, []string{"*"}, h.Values("Vary"))
	})

	t.Run("no_substitution_is_noop", func(t *testing.T) {
		h := precompressed.Decision{}.TransformHeader(http.Header{"Etag": {`"x"`}})
		assert.Equal(t, http.Header{"Etag": {`"x"`}}, h)
	})
}

func TestCompressFile(t *testing.T) {
	t.Parallel()

	content := bytes.Repeat([]byte("body { color: #333; margin: 0 auto; }\n"), 200)
	decoders := map[precompressed.Algorithm]func(io.Reader) (io.Reader, error){
		precompressed.Gzip: func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		precompressed.Brotli: func(r io.Reader) (io.Reader, error) {
			return brotli.NewReader(r), nil
		},
		precompressed.Zstandard: func(r io.Reader) (io.Reader, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
	}

	for _, level := range []precompressed.Level{precompressed.LevelDefault, precompressed.LevelFastest, precompressed.LevelBest} {
		for alg, decode := range decoders {
			dir := t.TempDir()
			src := filepath.Join(dir, "site.css")
			require.NoError(t, os.WriteFile(src, content, 0o644))
			mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			require.NoError(t, os.Chtimes(src, mtime, mtime))

			assert.False(t, precompressed.Fresh(src, alg))

			dst, err := precompressed.CompressFile(src, alg, level)
			require.NoError(t, err)
			assert.Equal(t, src+alg.Extension(), dst)
			assert.True(t, precompressed.Fresh(src, alg))

			info, err := os.Stat(dst)
			require.NoError(t, err)
			assert.True(t, info.ModTime().Equal(mtime))
			assert.Less(t, info.Size(), int64(len(content)))

			f, err := os.Open(dst)
			require.NoError(t, err)
			r, err := decode(f)
			require.NoError(t, err)
			decoded, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, f.Close())
			assert.Equal(t, content, decoded, "%s level %d", alg, level)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 2, "temporary file must not be left behind")
		}
	}
}

func TestCompressFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := precompressed.CompressFile(filepath.Join(dir, "missing.js"), precompressed.Gzip, precompressed.LevelDefault)
	assert.Error(t, err)

	_, err = precompressed.CompressFile(dir, precompressed.Gzip, precompressed.LevelDefault)
	assert.Error(t, err)

	_, err = precompressed.NewWriter(io.Discard, precompressed.Algorithm(42), precompressed.LevelDefault)
	assert.ErrorIs(t, err, precompressed.ErrUnsupportedAlgorithm)
}

func TestLevelText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want precompressed.Level
		err  bool
	}{
		{in: "", want: precompressed.LevelDefault},
		{in: "default", want: precompressed.LevelDefault},
		{in: "Fastest", want: precompressed.LevelFastest},
		{in: "fast", want: precompressed.LevelFastest},
		{in: " best ", want: precompressed.LevelBest},
		{in: "ultra", err: true},
	}

	for _, tt := range tests {
		var level precompressed.Level
		err := level.UnmarshalText([]byte(tt.in))
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, level, tt.in)
	}
}
