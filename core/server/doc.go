// Package server runs HTTP handlers with graceful shutdown and production-ready
// defaults. Two engines share the same options and lifecycle: Server wraps
// net/http and FastServer wraps github.com/valyala/fasthttp.
//
// # Key Features
//
//   - Graceful shutdown with configurable timeout
//   - net/http and fasthttp engines behind the same options
//   - Thread-safe lifecycle management
//   - Structured logging integration
//   - errgroup-compatible Run methods
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, handler))
//	if err := g.Wait(); err != nil {
//		return err
//	}
//
// The fasthttp engine takes a fasthttp.RequestHandler instead:
//
//	fast := server.NewFast(":8080", server.WithLogger(log))
//	g.Go(fast.Run(ctx, static.FastHTTPHandler(h, nil)))
//
// FastServer disables fasthttp's default Content-Type so that bodiless
// responses such as 304 and 416 are sent without one.
//
// # Configuration
//
// Config carries env tags (SERVER_ADDR, SERVER_ENGINE, SERVER_READ_TIMEOUT,
// SERVER_WRITE_TIMEOUT, SERVER_IDLE_TIMEOUT, SERVER_SHUTDOWN_TIMEOUT,
// SERVER_MAX_HEADER_BYTES) and converts into options:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg)
package server
