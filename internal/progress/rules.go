// Package progress はストリーク・XP・レベル・期限切れの計算ルールをまとめたもの。
// DB や時計には触れず、呼び出し側が now とタイムゾーンを渡す。
package progress

import (
	"time"

	"go_task_quest/internal/model"
)

// XPPerLevel はレベル1つあたりに必要な XP
const XPPerLevel = 100

var xpByDifficulty = map[model.Difficulty]int{
	model.DifficultyEasy:   10,
	model.DifficultyMedium: 25,
	model.DifficultyHard:   50,
}

// XPForDifficulty は難易度に対応する固定 XP を返す。未知の難易度は false。
func XPForDifficulty(d model.Difficulty) (int, bool) {
	xp, ok := xpByDifficulty[d]
	return xp, ok
}

// LevelDelta は XP の増減で跨いだレベル境界の数
func LevelDelta(oldXP, newXP int) int {
	return newXP/XPPerLevel - oldXP/XPPerLevel
}

// IsExpired は期限が now より厳密に前かどうか。期限なしは期限切れにならない。
func IsExpired(dueDate *time.Time, now time.Time) bool {
	return dueDate != nil && dueDate.Before(now)
}

// DayKey は loc における日付 (YYYY-MM-DD)
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// StartOfDay は loc における t の日の 0 時
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// NextMidnight は loc における t の翌日 0 時
func NextMidnight(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1)
}

// DaysBetween は loc の暦日で数えた from から to までの日数
func DaysBetween(from, to time.Time, loc *time.Location) int {
	a := StartOfDay(from, loc)
	b := StartOfDay(to, loc)
	// 夏時間の 23h/25h を吸収するため UTC の暦日に置き直して数える
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// CompletionStreak はタスク完了時点の新しいストリーク。
// 前回完了が前日なら +1、2日以上空いていれば 1 からやり直し、同日なら維持する。
func CompletionStreak(current int, lastCompletedAt *time.Time, now time.Time, loc *time.Location) int {
	if lastCompletedAt == nil {
		return 1
	}
	switch diff := DaysBetween(*lastCompletedAt, now, loc); {
	case diff == 1:
		return current + 1
	case diff > 1:
		return 1
	default:
		return max(current, 1)
	}
}

// UserState は計算に必要なユーザーの進捗
type UserState struct {
	XP            int
	Level         int
	CurrentStreak int
	LongestStreak int
}

type StreakChange int

const (
	StreakUnchanged StreakChange = iota
	StreakIncremented
	StreakReset
)

// Outcome は1ユーザー分の夜間精算結果
type Outcome struct {
	State        UserState
	StreakChange StreakChange
	HasCompleted bool
	HasExceeded  bool
	EarnedXP     int
	LevelsGained int
	DeleteIDs    []uint
}

// Reconcile は1日分のタスクからストリークと XP を精算する。
//
//   - 期限切れ (dueDate < cutoff、完了済みも含む) がある、または完了タスクがない → ストリーク 0
//   - それ以外 → ストリーク +1 (完了時にすでに反映済みのタスクしかなければ据え置き)
//   - 未反映の完了タスクの xpReward を合計して XP に加算する
//   - 完了タスクと期限切れタスクの和集合を削除対象にする
func Reconcile(state UserState, tasks []model.Task, cutoff time.Time) Outcome {
	out := Outcome{State: state}

	pending := 0
	for _, t := range tasks {
		expired := IsExpired(t.DueDate, cutoff)
		if expired {
			out.HasExceeded = true
		}
		if t.Completed {
			out.HasCompleted = true
			if !t.XPCredited {
				pending++
				out.EarnedXP += t.XPReward
			}
		}
		if t.Completed || expired {
			out.DeleteIDs = append(out.DeleteIDs, t.ID)
		}
	}

	switch {
	case out.HasExceeded || !out.HasCompleted:
		out.State.CurrentStreak = 0
		out.StreakChange = StreakReset
	case pending > 0:
		out.State.CurrentStreak++
		out.State.LongestStreak = max(out.State.LongestStreak, out.State.CurrentStreak)
		out.StreakChange = StreakIncremented
	}

	if out.EarnedXP > 0 {
		newXP := state.XP + out.EarnedXP
		out.LevelsGained = LevelDelta(state.XP, newXP)
		out.State.XP = newXP
		out.State.Level += out.LevelsGained
	}
	return out
}
