// Package static serves files below a root directory with correct HTTP
// caching, conditional request and byte-range semantics.
//
// The Handler resolves each request in a fixed order: the URL path is mapped
// onto the filesystem without leaving the root, non-canonical URLs are
// redirected with 308, directories are resolved to their index file, methods
// other than GET and HEAD are refused, a precompressed sibling is selected
// when the client accepts its encoding, preconditions are evaluated and the
// Range header is honoured.
//
// # Features
//
//   - Path traversal and symlink escape protection
//   - Canonical URL redirects that survive upstream prefix stripping
//   - If-Match, If-None-Match, If-Modified-Since, If-Unmodified-Since and If-Range
//   - Single byte ranges, including suffix and open-ended forms
//   - Precompressed .gz, .br and .zst siblings with Vary: Accept-Encoding
//   - Custom 404 page served with status 404
//   - Charset declaration for text-like media types
//   - Bounded filesystem concurrency
//
// # Basic Usage
//
// With net/http:
//
//	h, err := static.New(static.DefaultConfig("./public"),
//		static.WithLogger(log),
//	)
//	if err != nil {
//		return err
//	}
//	mux.Handle("/assets/", http.StripPrefix("/assets", static.HTTPHandler(h, nil)))
//
// With fasthttp:
//
//	srv := &fasthttp.Server{
//		Handler:              static.FastHTTPHandler(h, nil),
//		NoDefaultContentType: true,
//	}
//
// With the core/handler framework:
//
//	endpoint := static.Files[*handler.BaseContext](h)
//
// # Filters
//
// Handler implements Filter. Several filters can be combined with Chain,
// which stops at the first filter that does not return Unhandled:
//
//	chain := static.Chain{authFilter, h}
//
// # Configuration
//
// Config carries env tags and can be loaded with core/config:
//
//	var cfg static.Config
//	config.MustLoad(&cfg)
//
// Supported variables are STATIC_ROOT, STATIC_CANONICALIZE_URI,
// STATIC_INDEX_FILE, STATIC_PAGE_404, STATIC_PRECOMPRESSED,
// STATIC_DECLARE_CHARSET, STATIC_DECLARE_CHARSET_TYPES and
// STATIC_IO_CONCURRENCY.
//
// # Responses
//
// Error and redirect responses have no body. Content-Length is set on every
// response except 304 and 412, and Content-Type is set on every response
// that carries file content.
package static
