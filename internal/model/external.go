package model

// LeetCodeStats は GET /api/leetcode のレスポンス
type LeetCodeStats struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Total  int `json:"total"`
}

type QuoteResponse struct {
	Quote string `json:"quote"`
}

// CleanupSummary は夜間バッチ1回分の集計
type CleanupSummary struct {
	Success            bool   `json:"success"`
	Day                string `json:"day"`
	Users              int    `json:"users"`
	Processed          int    `json:"processed"`
	Skipped            int    `json:"skipped"`
	StreaksIncremented int    `json:"streaksIncremented"`
	StreaksReset       int    `json:"streaksReset"`
	XPAwarded          int    `json:"xpAwarded"`
	TasksDeleted       int    `json:"tasksDeleted"`
	Failed             int    `json:"failed"`
	// 途中で打ち切られた場合 true (Success は false のまま)
	Interrupted        bool   `json:"interrupted,omitempty"`
}
