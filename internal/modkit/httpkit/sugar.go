package httpkit

import "net/http"

// PostJSON mounts a handler under POST; the payload type T is parsed and
// validated before fn runs
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, JSON(fn))
}

// Get mounts a body-less handler under GET
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Call(fn))
}
