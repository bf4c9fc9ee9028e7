package app

import (
	"context"
	"net/http"
	"time"

	"github.com/deskops/helpdesk-groups/pkg/common"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// requestID propagates the caller's request id or assigns a new one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(common.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(common.HeaderRequestID, id)
		ctx := context.WithValue(r.Context(), common.ContextKeyRequestID, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func accessLog(logger *zerolog.Logger, metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			if metrics != nil {
				metrics.observeRequest(r.Method, route, rec.status, elapsed)
			}

			reqID, _ := r.Context().Value(common.ContextKeyRequestID).(string)
			logger.Debug().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", elapsed).
				Msg("request")
		})
	}
}
