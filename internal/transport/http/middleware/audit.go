package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"hrms/internal/domain/audit"
)

// AuditTrail records one audit row per API request after the response
// is written. Recording is fire-and-forget on a detached context so a
// slow insert never delays the response, and a failed insert never
// fails the request.
func AuditTrail(svc *audit.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)

			entry := audit.Entry{
				RequestID:  GetRequestID(r.Context()),
				Action:     r.Method + " " + r.URL.Path,
				Endpoint:   r.URL.Path,
				Method:     r.Method,
				StatusCode: recorder.status,
				IPAddress:  clientIPKey(r),
				UserAgent:  r.UserAgent(),
			}
			if user, ok := GetUser(r.Context()); ok {
				entry.UserID = user.UserID
			}

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := svc.Record(ctx, entry); err != nil {
					slog.Warn("audit record failed", "err", err, "requestId", entry.RequestID)
				}
			}()
		})
	}
}
