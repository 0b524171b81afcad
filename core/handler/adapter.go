package handler

import "net/http"

// Chain builds a single handler from a middleware stack and endpoint.
// The first middleware in the list runs first.
func Chain[C Context](endpoint HandlerFunc[C], middlewares ...Middleware[C]) HandlerFunc[C] {
	h := endpoint
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// ToHTTP adapts a HandlerFunc to http.Handler. newCtx builds the per-request context;
// onError receives errors returned by rendered responses and may be nil, in which case
// a plain 500 is written.
func ToHTTP[C Context](
	h HandlerFunc[C],
	newCtx func(w http.ResponseWriter, r *http.Request) C,
	onError ErrorHandler[C],
) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := newCtx(w, r)
		resp := h(ctx)
		if resp == nil {
			return
		}
		if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
			if onError != nil {
				onError(ctx, err)
				return
			}
			http.Error(ctx.ResponseWriter(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}
