package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go_task_quest/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// SchedulePlanner はタスク一覧から当日の時間割テキストを作る
type SchedulePlanner interface {
	Plan(ctx context.Context, userMessage string) (string, error)
}

const plannerInstructions = `You are an intelligent schedule planner.
User will give you:
- today's tasks (with title, description, difficulty, priority, xp)
- current time
- optional special instructions

Your job:
- create a perfect schedule from NOW until midnight
- break tasks into time blocks
- ensure realistic durations
- avoid overlaps
- include small breaks
- if it is very late at night you can create two schedules: one for tonight and one for tomorrow at a recommended time
- follow any special instructions given by user
- make a realistic schedule with frequent breaks if possible
- output in clean readable format:

Example format:
2:00 PM – 2:45 PM → Finish login page (HARD)
2:45 PM – 3:00 PM → Break
3:00 PM – 3:30 PM → Solve DSA Task (MEDIUM)`

// chatPlanner は OpenAI 互換の Chat Completions API を呼ぶ (Groq などを base_url で指定)
type chatPlanner struct {
	client *openai.Client
	model  string
}

func NewChatPlanner(cfg *config.SchedulerConfig) SchedulePlanner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &chatPlanner{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (p *chatPlanner) Plan(ctx context.Context, userMessage string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: plannerInstructions},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
