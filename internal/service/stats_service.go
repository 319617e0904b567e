//go:generate mockery --name StatsService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"
)

const (
	defaultQuote  = "Stay focused, keep moving."
	fallbackQuote = "Stay consistent. Even small steps count."

	leetCodeQuery = `query getUserProfile($username: String!) {
  matchedUser(username: $username) {
    submitStatsGlobal {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`
)

// StatsService は外部の公開 API (LeetCode, 名言) を中継する
type StatsService interface {
	LeetCodeStats(ctx context.Context, username string) (*model.LeetCodeStats, error)
	// Quote は失敗しても固定の文言を返す
	Quote(ctx context.Context) string
}

type statsService struct {
	client      *http.Client
	cache       KVStore
	cacheTTL    time.Duration
	leetCodeURL string
	quoteURL    string
}

func NewStatsService(cfg *config.Config, cache KVStore) StatsService {
	return &statsService{
		client:      &http.Client{Timeout: cfg.External.Timeout},
		cache:       cache,
		cacheTTL:    cfg.Redis.CacheTTL,
		leetCodeURL: cfg.External.LeetCodeURL,
		quoteURL:    cfg.External.QuoteURL,
	}
}

func (s *statsService) LeetCodeStats(ctx context.Context, username string) (*model.LeetCodeStats, error) {
	logger := middleware.GetLogger(ctx).With("leetcode_user", username)
	cacheKey := "leetcode:stats:" + strings.ToLower(username)

	if cached, ok, err := s.cache.Get(ctx, cacheKey); err != nil {
		logger.Warn("LeetCode cache read failed", "error", err)
	} else if ok {
		var stats model.LeetCodeStats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			logger.Debug("LeetCode stats served from cache")
			return &stats, nil
		}
	}

	stats, err := s.fetchLeetCode(ctx, username)
	if err != nil {
		logger.Error("Failed to fetch LeetCode data", "error", err)
		return nil, model.NewAppError("UPSTREAM_ERROR", "Failed to fetch LeetCode data", "", err)
	}

	if b, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(b), s.cacheTTL); err != nil {
			logger.Warn("LeetCode cache write failed", "error", err)
		}
	}
	return stats, nil
}

func (s *statsService) fetchLeetCode(ctx context.Context, username string) (*model.LeetCodeStats, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"query":     leetCodeQuery,
		"variables": map[string]string{"username": username},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.leetCodeURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leetcode returned status %d", res.StatusCode)
	}

	var body struct {
		Data struct {
			MatchedUser *struct {
				SubmitStatsGlobal struct {
					AcSubmissionNum []struct {
						Difficulty string `json:"difficulty"`
						Count      int    `json:"count"`
					} `json:"acSubmissionNum"`
				} `json:"submitStatsGlobal"`
			} `json:"matchedUser"`
		} `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode leetcode response: %w", err)
	}
	if body.Data.MatchedUser == nil {
		return nil, errors.New("leetcode user not found")
	}

	stats := &model.LeetCodeStats{}
	for _, n := range body.Data.MatchedUser.SubmitStatsGlobal.AcSubmissionNum {
		switch n.Difficulty {
		case "Easy":
			stats.Easy = n.Count
		case "Medium":
			stats.Medium = n.Count
		case "Hard":
			stats.Hard = n.Count
		case "All":
			stats.Total = n.Count
		}
	}
	return stats, nil
}

func (s *statsService) Quote(ctx context.Context) string {
	logger := middleware.GetLogger(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.quoteURL, nil)
	if err != nil {
		logger.Error("Quote API error", "error", err)
		return fallbackQuote
	}
	res, err := s.client.Do(req)
	if err != nil {
		logger.Error("Quote API error", "error", err)
		return fallbackQuote
	}
	defer res.Body.Close()

	var body struct {
		Quote string `json:"quote"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&body); err != nil {
		logger.Error("Quote API error", "error", err, "status", res.StatusCode)
		return fallbackQuote
	}
	if body.Quote == "" {
		return defaultQuote
	}
	return body.Quote
}
