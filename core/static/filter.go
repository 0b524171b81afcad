package static

import "context"

// Filter is a request filtering stage.
type Filter interface {
	Filter(ctx context.Context, req *Request, w ResponseWriter) (Result, error)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(ctx context.Context, req *Request, w ResponseWriter) (Result, error)

func (f FilterFunc) Filter(ctx context.Context, req *Request, w ResponseWriter) (Result, error) {
	return f(ctx, req, w)
}

// Chain runs filters in order until one of them returns something other than
// Unhandled or fails.
type Chain []Filter

func (c Chain) Filter(ctx context.Context, req *Request, w ResponseWriter) (Result, error) {
	for _, f := range c {
		res, err := f.Filter(ctx, req, w)
		if err != nil || res != Unhandled {
			return res, err
		}
	}
	return Unhandled, nil
}
