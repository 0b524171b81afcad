// Package precompressed selects and produces precompressed sibling files.
//
// A precompressed sibling holds the same content as a static file, already compressed with
// one algorithm and stored next to it under an algorithm-specific suffix:
//
//	app.js      original
//	app.js.br   Brotli
//	app.js.zst  Zstandard
//	app.js.gz   gzip
//
// Negotiate decides which sibling, if any, is served for a request. The configured
// algorithm order is authoritative: the client's Accept-Encoding only tells which codings
// are acceptable.
//
//	decision := precompressed.Negotiate(path, r.Header.Get("Accept-Encoding"),
//		[]precompressed.Algorithm{precompressed.Brotli, precompressed.Gzip}, probe)
//	if decision.Substituted() {
//		path = decision.Path
//	}
//	header = decision.TransformHeader(header)
//
// CompressFile and NewWriter produce siblings ahead of time, e.g. from a build step.
package precompressed
