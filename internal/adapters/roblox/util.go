package roblox

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	perr "rfinder/internal/platform/errors"
)

// StatusError carries the HTTP status of a non-200 response
type StatusError struct {
	Status int
	Body   string
	Err    error
}

// Error interface
func (e *StatusError) Error() string { return e.Err.Error() }

// Unwrap interface
func (e *StatusError) Unwrap() error { return e.Err }

// HTTPStatus returns the upstream status code
func (e *StatusError) HTTPStatus() int { return e.Status }

func statusError(resp *http.Response) error {
	tail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	_ = drainAndClose(resp.Body)

	var code perr.ErrorCode
	switch s := resp.StatusCode; {
	case s == http.StatusTooManyRequests:
		code = perr.ErrorCodeTooManyRequests
	case s == http.StatusNotFound:
		code = perr.ErrorCodeNotFound
	case s >= 500:
		code = perr.ErrorCodeUnavailable
	default:
		code = perr.ErrorCodeUnknown
	}
	return &StatusError{
		Status: resp.StatusCode,
		Body:   string(tail),
		Err:    perr.Newf(code, "unexpected status %d", resp.StatusCode),
	}
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

// StatusOf returns the upstream HTTP status carried by err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}

// looseInt decodes numbers, numeric strings and null; anything else leaves it unset
type looseInt struct {
	v     int64
	valid bool
}

func (l *looseInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		l.v, l.valid = n, true
		return nil
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		l.v, l.valid = int64(fv), true
	}
	return nil
}

func (l looseInt) ptr() *int64 {
	if !l.valid {
		return nil
	}
	v := l.v
	return &v
}
