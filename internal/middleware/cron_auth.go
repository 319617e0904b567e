package middleware

import (
	"crypto/subtle"
	"net/http"

	"go_task_quest/internal/model"
	"go_task_quest/internal/webutil"
)

// CronSecretAuth は Authorization: Bearer <secret> を要求する。secret が空なら常に拒否。
func CronSecretAuth(secret string) func(http.Handler) http.Handler {
	expected := []byte("Bearer " + secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())
			got := []byte(r.Header.Get("Authorization"))
			if secret == "" || subtle.ConstantTimeCompare(got, expected) != 1 {
				logger.Warn("Cron auth failed")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Unauthorized", "", model.ErrUnauthorized))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
