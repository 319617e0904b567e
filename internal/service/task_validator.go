//go:generate mockery --name TaskValidator --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"go_task_quest/internal/config"
	"go_task_quest/internal/middleware"
	"go_task_quest/internal/model"

	"google.golang.org/genai"
)

// TaskValidator はタスクが本物の努力か、難易度が妥当かを判定する。
// 失敗時は必ず isRelevant=false を返す
type TaskValidator interface {
	Validate(ctx context.Context, title, description string, difficulty model.Difficulty) model.ValidationResult
}

// TextGenerator はプロンプトから1回分のテキストを生成する
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var allowedReasons = map[string]struct{}{
	model.ReasonTaskValid:          {},
	model.ReasonInvalidTask:        {},
	model.ReasonInappropriateTask:  {},
	model.ReasonDifficultyMismatch: {},
}

var validatorPrompt = template.Must(template.New("validator").Parse(`
You are an AI task validator for a gamified productivity app.

Your responsibility:
1. Approve only tasks that are practical, meaningful, and beneficial for growth or discipline.
2. Be extremely strict about difficulty accuracy.
3. Reject any low-effort, vague, or joke-like tasks.

Task details:
- Title: "{{.Title}}"
- Description: "{{.Description}}"
- Claimed Difficulty: {{.Difficulty}}

STRICT VALIDATION RULES
1. Meaning & Purpose:
- Task must represent a real, productive activity (learning, fitness, creativity, self-care, or work).
- Reject tasks that are jokes, repetitive (e.g., "breathe", "blink"), or trivial ("walk 1 min", "say hello").

2. Difficulty Enforcement (Very strict):
- EASY: Small, low-effort daily habits or chores taking <15 minutes.
  Examples: "Drink water", "Make bed", "Stretch for 5 min", "homework".
- MEDIUM: Requires focus or consistent effort (30-90 minutes).
  Examples: "Study one topic", "Workout for 45 min", "Solve 2 coding problems".
  Reject if the task takes less than 20 minutes or lacks substance.
- HARD: Long, challenging, or multi-step task (>2 hours, requiring skill or planning).
  Examples: "Develop a feature", "Prepare for an exam", "Write a report".
  Reject if too short, easy, or vague.

3. General Rejections:
- Reject incomplete or unclear tasks.
- Reject unrealistic or impossible tasks.
- Reject mismatched difficulty strictly (like "walk 1 min" marked MEDIUM).

Respond strictly in JSON format only:
{
  "isRelevant": true or false,
  "reason": "Choose only from: 'Task valid', 'Invalid task', 'Inappropriate task', 'Difficulty mismatch'"
}
`))

type aiTaskValidator struct {
	gen TextGenerator
}

func NewTaskValidator(gen TextGenerator) TaskValidator {
	return &aiTaskValidator{gen: gen}
}

func (v *aiTaskValidator) Validate(ctx context.Context, title, description string, difficulty model.Difficulty) model.ValidationResult {
	logger := middleware.GetLogger(ctx).With("title", title, "difficulty", difficulty)

	var prompt strings.Builder
	err := validatorPrompt.Execute(&prompt, struct {
		Title       string
		Description string
		Difficulty  model.Difficulty
	}{title, description, difficulty})
	if err != nil {
		logger.Error("Failed to render validator prompt", "error", err)
		return model.ValidationResult{IsRelevant: false, Reason: model.ReasonAIValidationFailed}
	}

	raw, err := v.gen.Generate(ctx, prompt.String())
	if err != nil {
		logger.Error("AI validation error", "error", err)
		return model.ValidationResult{IsRelevant: false, Reason: model.ReasonAIValidationFailed}
	}
	logger.Debug("Raw validator response", "text", raw)

	result, err := parseValidation(raw)
	if err != nil {
		logger.Warn("Malformed AI output", "error", err, "text", raw)
		return model.ValidationResult{IsRelevant: false, Reason: model.ReasonInvalidAIResponse}
	}

	logger.Info("AI validation result", "is_relevant", result.IsRelevant, "reason", result.Reason)
	return result
}

// sanitizeModelJSON はコードフェンスと { の前、} の後ろの余計な文字を落とす
func sanitizeModelJSON(raw string) string {
	s := raw
	for _, fence := range []string{"```json", "```JSON", "```Json", "```"} {
		s = strings.ReplaceAll(s, fence, "")
	}
	if i := strings.Index(s, "{"); i >= 0 {
		s = s[i:]
	} else {
		return ""
	}
	if i := strings.LastIndex(s, "}"); i >= 0 {
		s = s[:i+1]
	}
	return strings.TrimSpace(s)
}

func parseValidation(raw string) (model.ValidationResult, error) {
	var parsed struct {
		IsRelevant *bool   `json:"isRelevant"`
		Reason     *string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(sanitizeModelJSON(raw)), &parsed); err != nil {
		return model.ValidationResult{}, fmt.Errorf("parse validator JSON: %w", err)
	}
	if parsed.IsRelevant == nil || parsed.Reason == nil {
		return model.ValidationResult{}, errors.New("missing isRelevant or reason")
	}
	if _, ok := allowedReasons[*parsed.Reason]; !ok {
		return model.ValidationResult{}, fmt.Errorf("unexpected reason %q", *parsed.Reason)
	}
	return model.ValidationResult{IsRelevant: *parsed.IsRelevant, Reason: *parsed.Reason}, nil
}

// geminiGenerator は Gemini API でテキストを生成する
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, cfg *config.GeminiConfig) (TextGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &geminiGenerator{client: client, model: cfg.Model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}

// unavailableGenerator は API キー未設定時に使う。常に失敗する
type unavailableGenerator struct{}

func NewUnavailableGenerator() TextGenerator {
	return unavailableGenerator{}
}

func (unavailableGenerator) Generate(context.Context, string) (string, error) {
	return "", errors.New("text generator is not configured")
}
