package service

import "time"

// テストから時計を差し替えるためのフック

func SetTaskServiceClock(s TaskService, now func() time.Time) {
	s.(*taskService).now = now
}

func SetAuthServiceClock(s AuthService, now func() time.Time) {
	s.(*authService).now = now
}

func SetScheduleServiceClock(s ScheduleService, now func() time.Time) {
	s.(*scheduleService).now = now
}

func SetSessionStoreClock(s *SessionStore, now func() time.Time) {
	s.now = now
}

func SetMemoryKVStoreClock(kv KVStore, now func() time.Time) {
	kv.(*memoryKVStore).now = now
}

var (
	SanitizeModelJSON   = sanitizeModelJSON
	DecodeDataURL       = decodeDataURL
	BuildPlannerMessage = buildPlannerMessage
)
