package http

import (
	"encoding/json"
	stdhttp "net/http"
	"runtime/debug"
	"time"

	perr "rfinder/internal/platform/errors"
	"rfinder/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	MaxAge         int
}

// CORS wraps go-chi/cors with the methods and headers the API uses
func CORS(o CORSOptions) func(stdhttp.Handler) stdhttp.Handler {
	origins := o.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}

// RequestContext copies the chi request id onto the logger context
func RequestContext(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		rid := chimw.GetReqID(r.Context())
		if rid != "" {
			w.Header().Set("X-Request-ID", rid)
		}
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), rid)))
	})
}

type captureWriter struct {
	stdhttp.ResponseWriter
	status int
	bytes  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	n, err := cw.ResponseWriter.Write(b)
	cw.bytes += n
	return n, err
}

// AccessLog logs method, path, status, elapsed and bytes; requests slower than slow log at warn
func AccessLog(slow time.Duration) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			cw := &captureWriter{ResponseWriter: w, status: stdhttp.StatusOK}
			start := time.Now()
			next.ServeHTTP(cw, r)

			elapsed := time.Since(start)
			log := logger.C(r.Context())
			evt := log.Info()
			if slow > 0 && elapsed >= slow {
				evt = log.Warn()
			}
			evt.Int("status", cw.status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", cw.bytes).
				Msg("request done")
		})
	}
}

// RecoverJSON converts panics into a 500 envelope and logs the stack
func RecoverJSON(next stdhttp.Handler) stdhttp.Handler {
	return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(stdhttp.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(Envelope{
					StatusCode: stdhttp.StatusInternalServerError,
					Status:     stdhttp.StatusText(stdhttp.StatusInternalServerError),
					Code:       perr.ErrorCodeUnknown,
					Error:      "internal error",
					RequestID:  chimw.GetReqID(r.Context()),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Defaults is the middleware chain every API mux gets
func Defaults(cors CORSOptions) []func(stdhttp.Handler) stdhttp.Handler {
	return []func(stdhttp.Handler) stdhttp.Handler{
		chimw.RealIP,
		chimw.RequestID,
		RequestContext,
		RecoverJSON,
		AccessLog(2 * time.Second),
		CORS(cors),
		chimw.NoCache,
	}
}
