package static

import "net/http"

// StatusResponse builds a bodiless response for status. Error and redirect
// bodies are left to the host pipeline.
func StatusResponse(status int) *Response {
	h := make(http.Header, 2)
	h.Set("Content-Length", "0")
	return &Response{Status: status, Header: h}
}

// RedirectResponse builds a 308 Permanent Redirect to location.
func RedirectResponse(location string) *Response {
	resp := StatusResponse(http.StatusPermanentRedirect)
	resp.Header.Set("Location", location)
	return resp
}

func methodNotAllowed() *Response {
	resp := StatusResponse(http.StatusMethodNotAllowed)
	resp.Header.Set("Allow", "GET, HEAD")
	return resp
}
