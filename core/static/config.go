package static

import (
	"github.com/dmitrymomot/staticfiles/pkg/precompressed"
)

// Config holds the static files handler configuration with environment variable support.
type Config struct {
	// Root is the directory files are served from. An empty root disables the
	// handler and every request is left to the next stage of the host pipeline.
	Root string `env:"STATIC_ROOT"`

	// CanonicalizeURI redirects requests to the canonical URL of the resolved file.
	CanonicalizeURI bool `env:"STATIC_CANONICALIZE_URI" envDefault:"true"`

	// IndexFile lists file names probed, in order, when a directory is requested.
	IndexFile []string `env:"STATIC_INDEX_FILE" envSeparator:"," envDefault:"index.html"`

	// Page404 is the URL path of a page served with status 404 for missing files.
	Page404 string `env:"STATIC_PAGE_404"`

	// Precompressed lists algorithms whose sibling files may be served, in order of preference.
	Precompressed []precompressed.Algorithm `env:"STATIC_PRECOMPRESSED" envSeparator:","`

	// DeclareCharset is appended to Content-Type of text-like files. Empty disables it.
	DeclareCharset string `env:"STATIC_DECLARE_CHARSET" envDefault:"utf-8"`

	// DeclareCharsetTypes are media type patterns receiving the charset
	// (default: mimematch.DefaultTextTypes).
	DeclareCharsetTypes []string `env:"STATIC_DECLARE_CHARSET_TYPES" envSeparator:","`

	// IOConcurrency bounds concurrent filesystem operations. Zero means unbounded.
	IOConcurrency int `env:"STATIC_IO_CONCURRENCY" envDefault:"0"`
}

// DefaultConfig returns a Config serving root with the defaults used for environment loading.
func DefaultConfig(root string) Config {
	return Config{
		Root:            root,
		CanonicalizeURI: true,
		IndexFile:       []string{"index.html"},
		DeclareCharset:  "utf-8",
	}
}
