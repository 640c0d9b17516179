package store

import "context"

// UpsertSleepScheduleParams は睡眠スケジュール登録クエリのパラメータ。
type UpsertSleepScheduleParams struct {
	// UserID は所有ユーザーのID。
	UserID string
	// Day は曜日（monday〜sunday）。
	Day string
	// Bedtime は就寝時刻（HH:mm形式）。
	Bedtime string
	// WakeUpTime は起床時刻（HH:mm形式）。
	WakeUpTime string
}

// UpsertSleepSchedule は指定曜日の睡眠スケジュールを登録または更新する。
func (q *Queries) UpsertSleepSchedule(ctx context.Context, arg UpsertSleepScheduleParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO sleep_schedules (user_id, day, bedtime, wake_up_time) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, day) DO UPDATE SET bedtime = excluded.bedtime, wake_up_time = excluded.wake_up_time`,
		arg.UserID, arg.Day, arg.Bedtime, arg.WakeUpTime)
	return err
}

// ListSleepSchedulesByUserID はユーザーの睡眠スケジュールを全曜日分取得する。
func (q *Queries) ListSleepSchedulesByUserID(ctx context.Context, userID string) ([]SleepSchedule, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT user_id, day, bedtime, wake_up_time FROM sleep_schedules WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	schedules := make([]SleepSchedule, 0)
	for rows.Next() {
		var s SleepSchedule
		if err := rows.Scan(&s.UserID, &s.Day, &s.Bedtime, &s.WakeUpTime); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// DeleteSleepSchedulesByUserID はユーザーの睡眠スケジュールを全削除する。
// スケジュール全体の置き換え時に使用する。
func (q *Queries) DeleteSleepSchedulesByUserID(ctx context.Context, userID string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM sleep_schedules WHERE user_id = ?`, userID)
	return err
}
