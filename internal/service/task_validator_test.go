package service_test

import (
	"context"
	"errors"
	"testing"

	"go_task_quest/internal/model"
	"go_task_quest/internal/service"
	servicemocks "go_task_quest/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSanitizeModelJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "そのまま", raw: `{"isRelevant":true,"reason":"Task valid"}`, want: `{"isRelevant":true,"reason":"Task valid"}`},
		{name: "コードフェンス", raw: "```json\n{\"isRelevant\":false,\"reason\":\"Invalid task\"}\n```", want: `{"isRelevant":false,"reason":"Invalid task"}`},
		{name: "前後の説明文", raw: "Sure! Here it is: {\"a\":1} hope this helps", want: `{"a":1}`},
		{name: "JSON がない", raw: "I cannot help with that", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.SanitizeModelJSON(tt.raw))
		})
	}
}

func Test_aiTaskValidator_Validate(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		genErr   error
		expected model.ValidationResult
	}{
		{
			name:     "正常系: 妥当なタスク",
			reply:    "```json\n{\"isRelevant\": true, \"reason\": \"Task valid\"}\n```",
			expected: model.ValidationResult{IsRelevant: true, Reason: model.ReasonTaskValid},
		},
		{
			name:     "正常系: 難易度の不一致",
			reply:    `{"isRelevant": false, "reason": "Difficulty mismatch"}`,
			expected: model.ValidationResult{IsRelevant: false, Reason: model.ReasonDifficultyMismatch},
		},
		{
			name:     "異常系: 想定外の reason",
			reply:    `{"isRelevant": true, "reason": "Looks great"}`,
			expected: model.ValidationResult{IsRelevant: false, Reason: model.ReasonInvalidAIResponse},
		},
		{
			name:     "異常系: isRelevant が bool でない",
			reply:    `{"isRelevant": "yes", "reason": "Task valid"}`,
			expected: model.ValidationResult{IsRelevant: false, Reason: model.ReasonInvalidAIResponse},
		},
		{
			name:     "異常系: isRelevant がない",
			reply:    `{"reason": "Task valid"}`,
			expected: model.ValidationResult{IsRelevant: false, Reason: model.ReasonInvalidAIResponse},
		},
		{
			name:     "異常系: JSON ではない",
			reply:    "no idea",
			expected: model.ValidationResult{IsRelevant: false, Reason: model.ReasonInvalidAIResponse},
		},
		{
			name:     "異常系: 呼び出しに失敗",
			genErr:   errors.New("quota exceeded"),
			expected: model.ValidationResult{IsRelevant: false, Reason: model.ReasonAIValidationFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := servicemocks.NewTextGenerator(t)
			gen.On("Generate", mock.Anything, mock.MatchedBy(func(prompt string) bool {
				return assert.Contains(t, prompt, `- Title: "Solve 2 coding problems"`) &&
					assert.Contains(t, prompt, "- Claimed Difficulty: MEDIUM")
			})).Return(tt.reply, tt.genErr).Once()

			got := service.NewTaskValidator(gen).Validate(context.Background(), "Solve 2 coding problems", "arrays", model.DifficultyMedium)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("異常系: 未設定のときは常に失敗扱い", func(t *testing.T) {
		got := service.NewTaskValidator(service.NewUnavailableGenerator()).Validate(context.Background(), "x", "", model.DifficultyEasy)
		assert.Equal(t, model.ValidationResult{IsRelevant: false, Reason: model.ReasonAIValidationFailed}, got)
	})
}
