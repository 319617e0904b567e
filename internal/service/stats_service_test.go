package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go_task_quest/internal/config"
	"go_task_quest/internal/model"
	"go_task_quest/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsConfig(leetcodeURL, quoteURL string) *config.Config {
	cfg := testConfig()
	cfg.External = config.ExternalConfig{LeetCodeURL: leetcodeURL, QuoteURL: quoteURL, Timeout: 2 * time.Second}
	cfg.Redis.CacheTTL = time.Minute
	return cfg
}

func Test_statsService_LeetCodeStats(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 難易度ごとの件数を返し、2回目はキャッシュを使う", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "https://leetcode.com", r.Header.Get("Referer"))

			var body struct {
				Query     string            `json:"query"`
				Variables map[string]string `json:"variables"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "asha_lc", body.Variables["username"])
			assert.Contains(t, body.Query, "acSubmissionNum")

			_, _ = w.Write([]byte(`{"data":{"matchedUser":{"submitStatsGlobal":{"acSubmissionNum":[
				{"difficulty":"All","count":120},
				{"difficulty":"Easy","count":70},
				{"difficulty":"Medium","count":40},
				{"difficulty":"Hard","count":10}
			]}}}}`))
		}))
		defer srv.Close()

		svc := service.NewStatsService(statsConfig(srv.URL, ""), service.NewMemoryKVStore())

		for i := 0; i < 2; i++ {
			stats, err := svc.LeetCodeStats(ctx, "asha_lc")
			require.NoError(t, err)
			assert.Equal(t, &model.LeetCodeStats{Easy: 70, Medium: 40, Hard: 10, Total: 120}, stats)
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("異常系: ユーザーが存在しない", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"matchedUser":null}}`))
		}))
		defer srv.Close()

		_, err := service.NewStatsService(statsConfig(srv.URL, ""), service.NewMemoryKVStore()).LeetCodeStats(ctx, "ghost")
		var appErr *model.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "UPSTREAM_ERROR", appErr.Detail.Code)
		assert.Equal(t, "Failed to fetch LeetCode data", appErr.Detail.Message)
	})

	t.Run("異常系: 上流が 5xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := service.NewStatsService(statsConfig(srv.URL, ""), service.NewMemoryKVStore()).LeetCodeStats(ctx, "asha_lc")
		assert.Error(t, err)
	})
}

func Test_statsService_Quote(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "正常系: 上流の名言",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":1,"quote":"Well begun is half done.","author":"Aristotle"}`))
			},
			want: "Well begun is half done.",
		},
		{
			name: "正常系: quote が空なら既定の文言",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":1}`))
			},
			want: "Stay focused, keep moving.",
		},
		{
			name: "異常系: 壊れた応答ならフォールバック",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			want: "Stay consistent. Even small steps count.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			got := service.NewStatsService(statsConfig("", srv.URL), service.NewMemoryKVStore()).Quote(ctx)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("異常系: 接続できなければフォールバック", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		got := service.NewStatsService(statsConfig("", url), service.NewMemoryKVStore()).Quote(ctx)
		assert.Equal(t, "Stay consistent. Even small steps count.", got)
	})
}
