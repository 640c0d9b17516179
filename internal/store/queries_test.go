package store

import (
	"database/sql"
	"testing"
	"time"
)

// setupQueries はテスト用のインメモリDBとQueriesを構築する。
func setupQueries(t *testing.T) *Queries {
	t.Helper()

	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("インメモリDBの作成に失敗: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

// createQueryTestUser はテスト用ユーザーを作成するヘルパー関数。
func createQueryTestUser(t *testing.T, q *Queries, id string) {
	t.Helper()

	err := q.CreateUser(t.Context(), CreateUserParams{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "hashed",
		DisplayName:  "テストユーザー",
	})
	if err != nil {
		t.Fatalf("ユーザーの作成に失敗: %v", err)
	}
}

// TestEventWindowWithNonUTCTimes はタイムゾーン付きの時刻で保存したイベントが
// UTCの範囲検索で正しくヒットすることを検証する。
func TestEventWindowWithNonUTCTimes(t *testing.T) {
	t.Parallel()

	q := setupQueries(t)
	createQueryTestUser(t, q, "user-tz")

	jst := time.FixedZone("JST", 9*60*60)
	// JSTの18:03 = UTCの09:03
	start := time.Date(2026, 9, 1, 18, 3, 0, 0, jst)
	err := q.CreateEvent(t.Context(), CreateEventParams{
		ID:        "event-tz",
		UserID:    "user-tz",
		Title:     "夕方の予定",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("イベントの作成に失敗: %v", err)
	}

	now := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	events, err := q.ListEventsStartingBetween(t.Context(), ListEventsStartingBetweenParams{
		After: now,
		Until: now.Add(5 * time.Minute),
	})
	if err != nil {
		t.Fatalf("範囲検索に失敗: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("ヒット件数: got %d, want 1", len(events))
	}
	if !events[0].StartTime.Equal(start) {
		t.Errorf("StartTime = %v, 保存した時刻 %v と同一時刻であるべき", events[0].StartTime, start)
	}
}

// TestTodoDueWindowBoundaries は期限範囲検索 [Start, End) の境界を検証する。
func TestTodoDueWindowBoundaries(t *testing.T) {
	t.Parallel()

	q := setupQueries(t)
	createQueryTestUser(t, q, "user-due")

	dayStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	todos := []struct {
		id  string
		due sql.NullTime
	}{
		{"todo-day-start", sql.NullTime{Time: dayStart, Valid: true}},
		{"todo-midday", sql.NullTime{Time: dayStart.Add(12 * time.Hour), Valid: true}},
		{"todo-next-day", sql.NullTime{Time: dayEnd, Valid: true}},
		{"todo-yesterday", sql.NullTime{Time: dayStart.Add(-time.Minute), Valid: true}},
		{"todo-no-due", sql.NullTime{}},
	}
	for _, td := range todos {
		err := q.CreateTodo(t.Context(), CreateTodoParams{
			ID:      td.id,
			UserID:  "user-due",
			Title:   td.id,
			DueDate: td.due,
		})
		if err != nil {
			t.Fatalf("Todoの作成に失敗: %v", err)
		}
	}

	got, err := q.ListTodosDueBetween(t.Context(), ListTodosDueBetweenParams{
		Start: dayStart,
		End:   dayEnd,
	})
	if err != nil {
		t.Fatalf("範囲検索に失敗: %v", err)
	}

	want := map[string]bool{"todo-day-start": true, "todo-midday": true}
	if len(got) != len(want) {
		t.Fatalf("ヒット件数: got %d, want %d", len(got), len(want))
	}
	for _, todo := range got {
		if !want[todo.ID] {
			t.Errorf("範囲外のTodoがヒット: %s", todo.ID)
		}
	}
}

// TestUpsertSleepSchedule は同一曜日の睡眠スケジュールが上書きされることを検証する。
func TestUpsertSleepSchedule(t *testing.T) {
	t.Parallel()

	q := setupQueries(t)
	createQueryTestUser(t, q, "user-sleep")

	err := q.UpsertSleepSchedule(t.Context(), UpsertSleepScheduleParams{
		UserID: "user-sleep", Day: "monday", Bedtime: "22:30", WakeUpTime: "06:30",
	})
	if err != nil {
		t.Fatalf("スケジュールの登録に失敗: %v", err)
	}

	err = q.UpsertSleepSchedule(t.Context(), UpsertSleepScheduleParams{
		UserID: "user-sleep", Day: "monday", Bedtime: "23:00", WakeUpTime: "07:00",
	})
	if err != nil {
		t.Fatalf("スケジュールの上書きに失敗: %v", err)
	}

	schedules, err := q.ListSleepSchedulesByUserID(t.Context(), "user-sleep")
	if err != nil {
		t.Fatalf("スケジュールの取得に失敗: %v", err)
	}
	if len(schedules) != 1 {
		t.Fatalf("件数: got %d, want 1", len(schedules))
	}
	if schedules[0].Bedtime != "23:00" || schedules[0].WakeUpTime != "07:00" {
		t.Errorf("上書き後の値: got %s/%s, want 23:00/07:00", schedules[0].Bedtime, schedules[0].WakeUpTime)
	}
}

// TestUpdateFCMToken はプッシュ通知用トークンの更新と解除を検証する。
func TestUpdateFCMToken(t *testing.T) {
	t.Parallel()

	q := setupQueries(t)
	createQueryTestUser(t, q, "user-fcm")

	err := q.UpdateFCMToken(t.Context(), UpdateFCMTokenParams{
		UserID:   "user-fcm",
		FCMToken: sql.NullString{String: "device-token", Valid: true},
	})
	if err != nil {
		t.Fatalf("トークンの更新に失敗: %v", err)
	}

	user, err := q.GetUserByID(t.Context(), "user-fcm")
	if err != nil {
		t.Fatalf("ユーザーの取得に失敗: %v", err)
	}
	if !user.FCMToken.Valid || user.FCMToken.String != "device-token" {
		t.Errorf("FCMToken = %+v, want device-token", user.FCMToken)
	}

	err = q.UpdateFCMToken(t.Context(), UpdateFCMTokenParams{
		UserID:   "user-fcm",
		FCMToken: sql.NullString{},
	})
	if err != nil {
		t.Fatalf("トークンの解除に失敗: %v", err)
	}

	user, err = q.GetUserByID(t.Context(), "user-fcm")
	if err != nil {
		t.Fatalf("ユーザーの取得に失敗: %v", err)
	}
	if user.FCMToken.Valid {
		t.Errorf("解除後のFCMToken = %+v, want 無効値", user.FCMToken)
	}
}
