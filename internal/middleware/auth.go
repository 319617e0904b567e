package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/model"
	"go_task_quest/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
)

// RevocationChecker はログアウト済みトークン (jti) を判定する
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

var errNoToken = errors.New("session token missing")

// SessionAuth は Cookie または Authorization: Bearer のセッション JWT を必須とする
func SessionAuth(cfg *config.Config, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			session, err := authenticate(r, cfg, revoked)
			if err != nil {
				logger.Warn("Session auth failed", "error", err)
				appErr := model.NewAppError("UNAUTHORIZED", "Unauthorized", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			logger = logger.With("user_id", session.UserID)
			ctx := WithLogger(r.Context(), logger)
			ctx = WithSession(ctx, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSessionAuth はセッションがあればコンテキストに入れるが、なくても通す
func OptionalSessionAuth(cfg *config.Config, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authenticate(r, cfg, revoked)
			if err != nil {
				if !errors.Is(err, errNoToken) {
					GetLogger(r.Context()).Debug("Ignoring invalid optional session", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

func authenticate(r *http.Request, cfg *config.Config, revoked RevocationChecker) (*model.Session, error) {
	tokenString := tokenFromRequest(r, cfg.JWT.CookieName)
	if tokenString == "" {
		return nil, errNoToken
	}

	session, err := ParseSessionToken(cfg.JWT.SecretKey, tokenString)
	if err != nil {
		return nil, err
	}

	if revoked != nil && session.ID != "" {
		isRevoked, err := revoked.IsRevoked(r.Context(), session.ID)
		if err != nil {
			// 失効ストアが落ちている場合は通さない
			return nil, err
		}
		if isRevoked {
			return nil, errors.New("session revoked")
		}
	}
	return session, nil
}

// tokenFromRequest は Authorization ヘッダーを優先し、なければ Cookie を見る
func tokenFromRequest(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// ParseSessionToken は HS256 の署名と有効期限を検証し、セッションを取り出す
func ParseSessionToken(secret, tokenString string) (*model.Session, error) {
	return ParseSessionTokenAt(secret, tokenString, time.Now())
}

// ParseSessionTokenAt は now を現在時刻として期限を判定する
func ParseSessionTokenAt(secret, tokenString string, now time.Time) (*model.Session, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	claims := &model.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return nil, errors.New("invalid subject claim")
	}

	session := &model.Session{
		UserID: uint(userID),
		Email:  claims.Email,
		ID:     claims.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return session, nil
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, s *model.Session) context.Context {
	ctx = context.WithValue(ctx, sessionCtxKey{}, s)
	return context.WithValue(ctx, model.UserIDKey, s.UserID)
}

// GetSessionFromContext は認証済みセッションを返す。なければ ErrUnauthorized。
func GetSessionFromContext(ctx context.Context) (*model.Session, error) {
	s, ok := ctx.Value(sessionCtxKey{}).(*model.Session)
	if !ok || s == nil {
		return nil, model.NewAppError("UNAUTHORIZED", "Unauthorized", "", model.ErrUnauthorized)
	}
	return s, nil
}

func GetUserIDFromContext(ctx context.Context) (uint, error) {
	value, ok := ctx.Value(model.UserIDKey).(uint)
	if !ok || value == 0 {
		return 0, model.NewAppError("UNAUTHORIZED", "Unauthorized", "", model.ErrUnauthorized)
	}
	return value, nil
}
