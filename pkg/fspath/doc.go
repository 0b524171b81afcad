// Package fspath maps URL paths onto filesystem paths confined to a root directory.
//
// Resolution percent-decodes every path segment, collapses "." and ".." segments and then
// canonicalizes the result against the filesystem, so symlinks are followed before the
// root containment check runs. Failures are reported through sentinel errors that callers
// match with errors.Is:
//
//	path, err := fspath.Resolve("/css/site.css", root)
//	switch {
//	case errors.Is(err, fspath.ErrMalformed), errors.Is(err, fspath.ErrEscape):
//		// 400 Bad Request
//	case errors.Is(err, fspath.ErrNotFound):
//		// 404 Not Found
//	case errors.Is(err, fspath.ErrPermission):
//		// 403 Forbidden
//	case err != nil:
//		// 500 Internal Server Error
//	}
//
// ToURI performs the inverse mapping and is used to build canonical redirect targets:
//
//	uri, ok := fspath.ToURI(path, root) // "/css/site.css"
//
// The root passed to Resolve, Within and ToURI must itself be canonical. Use Canonical once at
// startup to obtain it.
package fspath
