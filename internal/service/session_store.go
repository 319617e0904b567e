package service

import (
	"context"
	"time"
)

const revokedKeyPrefix = "session:revoked:"

// SessionStore はログアウトしたトークンの jti を有効期限まで保持する
type SessionStore struct {
	kv  KVStore
	now func() time.Time
}

func NewSessionStore(kv KVStore) *SessionStore {
	return &SessionStore{kv: kv, now: time.Now}
}

// Revoke は expiresAt までトークンを無効にする。期限切れ済みなら何もしない
func (s *SessionStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if jti == "" || ttl <= 0 {
		return nil
	}
	return s.kv.Set(ctx, revokedKeyPrefix+jti, "1", ttl)
}

func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, found, err := s.kv.Get(ctx, revokedKeyPrefix+jti)
	return found, err
}
