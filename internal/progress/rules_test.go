package progress

import (
	"testing"
	"time"
	_ "time/tzdata"

	"go_task_quest/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestXPForDifficulty(t *testing.T) {
	tests := []struct {
		name string
		in   model.Difficulty
		want int
		ok   bool
	}{
		{"正常系: EASY", model.DifficultyEasy, 10, true},
		{"正常系: MEDIUM", model.DifficultyMedium, 25, true},
		{"正常系: HARD", model.DifficultyHard, 50, true},
		{"異常系: 未知の難易度", model.Difficulty("EPIC"), 0, false},
		{"異常系: 小文字は受け付けない", model.Difficulty("easy"), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := XPForDifficulty(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestLevelDelta(t *testing.T) {
	tests := []struct {
		name         string
		oldXP, newXP int
		want         int
	}{
		{"境界を跨がない", 0, 99, 0},
		{"ちょうど100", 99, 100, 1},
		{"2段階アップ", 90, 310, 3},
		{"XP が減ると負になる", 250, 150, -1},
		{"変化なし", 120, 120, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelDelta(tt.oldXP, tt.newXP))
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 11, 20, 12, 0, 0, 0, time.UTC)
	assert.False(t, IsExpired(nil, now), "期限なし")
	assert.False(t, IsExpired(ptr(now), now), "ちょうど now は期限切れではない")
	assert.True(t, IsExpired(ptr(now.Add(-time.Nanosecond)), now))
	assert.False(t, IsExpired(ptr(now.Add(time.Minute)), now))
}

func TestNextMidnight(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// UTC 20:00 は IST では翌日 01:30
	now := time.Date(2025, 11, 20, 20, 0, 0, 0, time.UTC)
	got := NextMidnight(now, ist)
	assert.Equal(t, time.Date(2025, 11, 22, 0, 0, 0, 0, ist), got)
	assert.Equal(t, "2025-11-21", DayKey(now, ist))
}

func TestCompletionStreak(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 11, 20, 9, 0, 0, 0, loc)

	tests := []struct {
		name    string
		current int
		last    *time.Time
		want    int
	}{
		{"初回完了は1", 0, nil, 1},
		{"前日に完了していれば+1", 4, ptr(time.Date(2025, 11, 19, 23, 59, 0, 0, loc)), 5},
		{"24時間未満でも暦日が前日なら+1", 2, ptr(time.Date(2025, 11, 19, 22, 0, 0, 0, loc)), 3},
		{"2日以上空いたら1に戻る", 7, ptr(time.Date(2025, 11, 17, 9, 0, 0, 0, loc)), 1},
		{"同日は据え置き", 3, ptr(time.Date(2025, 11, 20, 1, 0, 0, 0, loc)), 3},
		{"同日でもリセット後なら1", 0, ptr(time.Date(2025, 11, 20, 1, 0, 0, 0, loc)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionStreak(tt.current, tt.last, now, loc))
		})
	}
}

func TestReconcile(t *testing.T) {
	// 締め (その日の 0 時)
	now := time.Date(2025, 11, 21, 0, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)

	tests := []struct {
		name        string
		state       UserState
		tasks       []model.Task
		wantState   UserState
		wantChange  StreakChange
		wantEarned  int
		wantDeleted []uint
	}{
		{
			name:        "正常系: EASY を1件完了 (xp=0, streak=3) → xp=10, streak=4",
			state:       UserState{XP: 0, Level: 1, CurrentStreak: 3, LongestStreak: 3},
			tasks:       []model.Task{{ID: 1, Difficulty: model.DifficultyEasy, XPReward: 10, Completed: true}},
			wantState:   UserState{XP: 10, Level: 1, CurrentStreak: 4, LongestStreak: 4},
			wantChange:  StreakIncremented,
			wantEarned:  10,
			wantDeleted: []uint{1},
		},
		{
			name:        "正常系: 昨日期限の未完了タスク → streak=0 でタスク削除",
			state:       UserState{XP: 40, Level: 1, CurrentStreak: 5, LongestStreak: 9},
			tasks:       []model.Task{{ID: 7, XPReward: 25, DueDate: &yesterday}},
			wantState:   UserState{XP: 40, Level: 1, CurrentStreak: 0, LongestStreak: 9},
			wantChange:  StreakReset,
			wantDeleted: []uint{7},
		},
		{
			name:        "正常系: タスクなし → streak=0",
			state:       UserState{XP: 0, Level: 1, CurrentStreak: 2, LongestStreak: 2},
			wantState:   UserState{XP: 0, Level: 1, CurrentStreak: 0, LongestStreak: 2},
			wantChange:  StreakReset,
			wantDeleted: nil,
		},
		{
			name:  "正常系: 完了ありでも期限切れがあればリセット、XP は加算",
			state: UserState{XP: 90, Level: 1, CurrentStreak: 6, LongestStreak: 6},
			tasks: []model.Task{
				{ID: 1, XPReward: 25, Completed: true},
				{ID: 2, XPReward: 10, DueDate: &yesterday},
				{ID: 3, XPReward: 50, DueDate: &tomorrow},
			},
			wantState:   UserState{XP: 115, Level: 2, CurrentStreak: 0, LongestStreak: 6},
			wantChange:  StreakReset,
			wantEarned:  25,
			wantDeleted: []uint{1, 2},
		},
		{
			name:  "正常系: 期限を過ぎてから完了したタスクも期限切れとしてリセット、XP は加算",
			state: UserState{XP: 0, Level: 1, CurrentStreak: 3, LongestStreak: 3},
			tasks: []model.Task{
				{ID: 4, XPReward: 50, Completed: true, DueDate: &yesterday},
			},
			wantState:   UserState{XP: 50, Level: 1, CurrentStreak: 0, LongestStreak: 3},
			wantChange:  StreakReset,
			wantEarned:  50,
			wantDeleted: []uint{4},
		},
		{
			name:  "正常系: 期限ちょうどの完了タスクは期限切れではない",
			state: UserState{XP: 0, Level: 1, CurrentStreak: 3, LongestStreak: 3},
			tasks: []model.Task{
				{ID: 9, XPReward: 10, Completed: true, DueDate: &now},
				{ID: 10, XPReward: 25, DueDate: &now},
			},
			wantState:   UserState{XP: 10, Level: 1, CurrentStreak: 4, LongestStreak: 4},
			wantChange:  StreakIncremented,
			wantEarned:  10,
			wantDeleted: []uint{9},
		},
		{
			name:  "正常系: 反映済みでも期限を過ぎた完了タスクがあればリセット",
			state: UserState{XP: 60, Level: 1, CurrentStreak: 4, LongestStreak: 4},
			tasks: []model.Task{
				{ID: 11, XPReward: 50, Completed: true, XPCredited: true, DueDate: &yesterday},
			},
			wantState:   UserState{XP: 60, Level: 1, CurrentStreak: 0, LongestStreak: 4},
			wantChange:  StreakReset,
			wantDeleted: []uint{11},
		},
		{
			name:  "正常系: 完了時に反映済みのタスクだけなら XP もストリークも据え置き",
			state: UserState{XP: 60, Level: 1, CurrentStreak: 4, LongestStreak: 4},
			tasks: []model.Task{
				{ID: 5, XPReward: 50, Completed: true, XPCredited: true},
				{ID: 6, XPReward: 10, DueDate: &tomorrow},
			},
			wantState:   UserState{XP: 60, Level: 1, CurrentStreak: 4, LongestStreak: 4},
			wantChange:  StreakUnchanged,
			wantDeleted: []uint{5},
		},
		{
			name:  "正常系: longestStreak は減らない",
			state: UserState{XP: 0, Level: 1, CurrentStreak: 2, LongestStreak: 10},
			tasks: []model.Task{
				{ID: 8, XPReward: 10, Completed: true},
			},
			wantState:   UserState{XP: 10, Level: 1, CurrentStreak: 3, LongestStreak: 10},
			wantChange:  StreakIncremented,
			wantEarned:  10,
			wantDeleted: []uint{8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Reconcile(tt.state, tt.tasks, now)
			assert.Equal(t, tt.wantState, out.State)
			assert.Equal(t, tt.wantChange, out.StreakChange)
			assert.Equal(t, tt.wantEarned, out.EarnedXP)
			assert.Equal(t, tt.wantDeleted, out.DeleteIDs)
			assert.Equal(t, LevelDelta(tt.state.XP, out.State.XP), out.State.Level-tt.state.Level)
		})
	}
}
