package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/staticfiles/core/logger"
	"github.com/dmitrymomot/staticfiles/pkg/fspath"
	"github.com/dmitrymomot/staticfiles/pkg/httprange"
	"github.com/dmitrymomot/staticfiles/pkg/mimematch"
	"github.com/dmitrymomot/staticfiles/pkg/precompressed"
)

// Handler turns requests into response descriptors for files below a root
// directory and sends them. It is safe for concurrent use.
type Handler struct {
	root         string
	canonicalize bool
	indexFiles   []string
	page404      string
	algorithms   []precompressed.Algorithm
	charset      string
	charsetTypes *mimematch.Matcher
	gate         ioGate
	source       Source
	log          *slog.Logger
}

// New validates cfg and builds a Handler. An empty cfg.Root yields a handler
// that declines every request.
func New(cfg Config, opts ...Option) (*Handler, error) {
	h := &Handler{
		canonicalize: cfg.CanonicalizeURI,
		page404:      cfg.Page404,
		algorithms:   append([]precompressed.Algorithm(nil), cfg.Precompressed...),
		charset:      cfg.DeclareCharset,
		gate:         newIOGate(cfg.IOConcurrency),
		source:       NewFileSource(nil),
		log:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if cfg.Root != "" {
		root, err := fspath.Canonical(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root directory %q: %w", cfg.Root, err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat root directory %q: %w", cfg.Root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("root %q is not a directory", cfg.Root)
		}
		h.root = root
	}

	for _, name := range cfg.IndexFile {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIndexFile, name)
		}
		h.indexFiles = append(h.indexFiles, name)
	}

	for _, alg := range h.algorithms {
		if alg.Encoding() == "" {
			return nil, fmt.Errorf("%w: %d", precompressed.ErrUnsupportedAlgorithm, alg)
		}
	}

	patterns := cfg.DeclareCharsetTypes
	if len(patterns) == 0 {
		patterns = mimematch.DefaultTextTypes
	}
	m, err := mimematch.New(patterns...)
	if err != nil {
		return nil, fmt.Errorf("invalid charset media types: %w", err)
	}
	h.charsetTypes = m

	return h, nil
}

// Root returns the canonical root directory, or an empty string when the handler is disabled.
func (h *Handler) Root() string { return h.root }

// Handle decides the response for req. A nil response without error means
// the request is not handled and the host should continue its own chain.
// An error is returned only when ctx is done before a decision was made.
func (h *Handler) Handle(ctx context.Context, req *Request) (*Response, error) {
	if h.root == "" {
		h.log.DebugContext(ctx, "static root not configured, declining request")
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log := h.log.With(logger.Method(req.Method), logger.Path(req.Path))

	path, err := gated(ctx, h.gate, func() (string, error) {
		return fspath.Resolve(req.Path, h.root)
	})
	notFound := false
	if err != nil {
		if !errors.Is(err, fspath.ErrNotFound) {
			return h.failure(ctx, log, err)
		}
		log.DebugContext(ctx, "requested file not found", logger.Error(err))
		if h.page404 == "" {
			return StatusResponse(http.StatusNotFound), nil
		}
		path, err = gated(ctx, h.gate, func() (string, error) {
			return fspath.Resolve(h.page404, h.root)
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.ErrorContext(ctx, "custom 404 page cannot be resolved",
				logger.FilePath(h.page404), logger.Error(err))
			return StatusResponse(http.StatusNotFound), nil
		}
		notFound = true
	}

	if h.canonicalize && !notFound {
		// An empty canonical form means the path has no lossless URL and is served as is.
		canonical, err := gated(ctx, h.gate, func() (string, error) {
			uri, _ := fspath.ToURI(path, h.root)
			return uri, nil
		})
		if err != nil {
			return nil, err
		}
		if canonical != "" && canonical != req.Path {
			location := redirectPrefix(req) + canonical
			if req.RawQuery != "" {
				location += "?" + req.RawQuery
			}
			log.DebugContext(ctx, "redirecting to canonical location", logger.Location(location))
			return RedirectResponse(location), nil
		}
	}

	path, regular, err := h.index(ctx, log, path)
	if err != nil {
		return nil, err
	}

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		log.DebugContext(ctx, "method not allowed")
		return methodNotAllowed(), nil
	}

	decision := precompressed.Decision{}
	if regular {
		decision = precompressed.Negotiate(path, req.Header.Get("Accept-Encoding"), h.algorithms, h.probe(ctx))
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	effective := path
	if decision.Substituted() {
		effective = decision.Path
		log.DebugContext(ctx, "serving precompressed file",
			logger.FilePath(effective), logger.Encoding(decision.Algorithm.Encoding()))
	}

	meta, err := gated(ctx, h.gate, func() (*Metadata, error) {
		return MetadataFromPath(effective, path)
	})
	if err != nil {
		if errors.Is(err, ErrNotRegularFile) {
			log.DebugContext(ctx, "refusing to serve non-regular file", logger.FilePath(effective))
			return StatusResponse(http.StatusForbidden), nil
		}
		return h.failure(ctx, log, err)
	}

	switch Evaluate(ParseConditions(req.Header), meta.ETag, meta.ModTime) {
	case PreconditionFailed:
		resp := meta.CustomHeader(http.StatusPreconditionFailed)
		decision.TransformHeader(resp.Header)
		return resp, nil
	case NotModified:
		resp := meta.CustomHeader(http.StatusNotModified)
		decision.TransformHeader(resp.Header)
		return resp, nil
	}

	charset := ""
	if h.charset != "" && h.charsetTypes.Matches(meta.MediaType) {
		charset = h.charset
	}

	var resp *Response
	if r, ok := httprange.Extract(req.Header, meta.Size, meta.ETag, meta.LastModified); ok {
		if !r.IsValid() {
			log.DebugContext(ctx, "requested range not satisfiable", slog.Int64("size", meta.Size))
			resp = meta.NotSatisfiableHeader()
			decision.TransformHeader(resp.Header)
			return resp, nil
		}
		resp = meta.PartialHeader(charset, r.Start, r.End)
	} else {
		resp = meta.FullHeader(charset)
	}
	decision.TransformHeader(resp.Header)

	if notFound {
		resp.Status = http.StatusNotFound
	}
	if req.Method == http.MethodHead {
		resp.Body = nil
	}
	return resp, nil
}

// Filter handles req and sends the response through w.
func (h *Handler) Filter(ctx context.Context, req *Request, w ResponseWriter) (Result, error) {
	resp, err := h.Handle(ctx, req)
	if err != nil {
		return Unhandled, err
	}
	if resp == nil {
		return Unhandled, nil
	}
	if err := h.Send(ctx, resp, w); err != nil {
		return ResponseSent, err
	}
	return ResponseSent, nil
}

// Send writes resp to w. The body is opened before the header is written so
// that an unreadable file still produces a 500 response.
func (h *Handler) Send(ctx context.Context, resp *Response, w ResponseWriter) error {
	if resp.Body == nil {
		return w.WriteHeader(resp.Status, resp.Header)
	}

	body, err := gated(ctx, h.gate, func() (io.ReadCloser, error) {
		return h.source.ReadRange(ctx, resp.Path, resp.Body.Start, resp.Body.End)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		h.log.ErrorContext(ctx, "failed to open file content",
			logger.FilePath(resp.Path), logger.ByteRange(resp.Body.Start, resp.Body.End), logger.Error(err))
		return h.Send(ctx, StatusResponse(http.StatusInternalServerError), w)
	}

	if err := w.WriteHeader(resp.Status, resp.Header); err != nil {
		body.Close()
		return err
	}

	size := resp.Body.Length()
	if sw, ok := w.(StreamWriter); ok {
		return sw.WriteStream(body, size)
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", resp.Path, err)
	}
	if n != size {
		return fmt.Errorf("%w: sent %d of %d bytes of %s", ErrShortBody, n, size, resp.Path)
	}
	return nil
}

// index resolves a directory to its first index file that exists as a
// regular file within root. The boolean reports whether the returned path is
// a regular file.
func (h *Handler) index(ctx context.Context, log *slog.Logger, path string) (string, bool, error) {
	info, err := gated(ctx, h.gate, func() (fs.FileInfo, error) {
		return os.Stat(path)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		// MetadataFromPath reports the failure with the proper status.
		return path, false, nil
	}
	if !info.IsDir() {
		return path, info.Mode().IsRegular(), nil
	}

	for _, name := range h.indexFiles {
		candidate, ok := h.regularWithin(ctx, filepath.Join(path, name))
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		if ok {
			log.DebugContext(ctx, "serving directory index", logger.FilePath(candidate))
			return candidate, true, nil
		}
	}
	return path, false, nil
}

func (h *Handler) probe(ctx context.Context) precompressed.Probe {
	return func(candidate string) (string, bool) {
		return h.regularWithin(ctx, candidate)
	}
}

// regularWithin reports whether path canonicalizes to a regular file inside root.
func (h *Handler) regularWithin(ctx context.Context, path string) (string, bool) {
	resolved, err := gated(ctx, h.gate, func() (string, error) {
		resolved, err := fspath.Within(path, h.root)
		if err != nil {
			return "", err
		}
		info, err := os.Stat(resolved)
		if err != nil {
			return "", err
		}
		if !info.Mode().IsRegular() {
			return "", ErrNotRegularFile
		}
		return resolved, nil
	})
	if err != nil {
		if errors.Is(err, fspath.ErrEscape) {
			h.log.WarnContext(ctx, "candidate file escapes root directory", logger.FilePath(path))
		}
		return "", false
	}
	return resolved, true
}

// failure maps a resolution or stat error onto a status response.
func (h *Handler) failure(ctx context.Context, log *slog.Logger, err error) (*Response, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	switch {
	case errors.Is(err, fspath.ErrMalformed):
		log.DebugContext(ctx, "rejecting malformed path", logger.Error(err))
		return StatusResponse(http.StatusBadRequest), nil
	case errors.Is(err, fspath.ErrEscape):
		log.WarnContext(ctx, "requested path escapes root directory", logger.Error(err))
		return StatusResponse(http.StatusBadRequest), nil
	case errors.Is(err, fspath.ErrPermission), errors.Is(err, fs.ErrPermission):
		log.DebugContext(ctx, "access to requested path denied", logger.Error(err))
		return StatusResponse(http.StatusForbidden), nil
	case errors.Is(err, fspath.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		log.DebugContext(ctx, "requested file disappeared", logger.Error(err))
		return StatusResponse(http.StatusNotFound), nil
	default:
		log.ErrorContext(ctx, "failed to resolve requested path", logger.Error(err))
		return StatusResponse(http.StatusInternalServerError), nil
	}
}

// redirectPrefix returns the part of the original path that the host
// stripped before handing the request over.
func redirectPrefix(req *Request) string {
	if req.OriginalPath == "" || req.OriginalPath == req.Path {
		return ""
	}
	if prefix, ok := strings.CutSuffix(req.OriginalPath, req.Path); ok {
		return prefix
	}
	return ""
}
