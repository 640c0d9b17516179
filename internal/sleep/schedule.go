package sleep

import (
	"fmt"
	"strings"
	"time"
)

// Days は曜日名を週の順に並べたスライス。
// スケジュールのJSON表現とプロンプトの曜日順はこの順序に従う。
var Days = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DaySchedule は1日分の就寝・起床時刻。
type DaySchedule struct {
	// Bedtime は就寝時刻（HH:mm形式）。
	Bedtime string `json:"bedtime"`
	// WakeUpTime は起床時刻（HH:mm形式）。
	WakeUpTime string `json:"wake_up_time"`
}

// WeekSchedule は曜日名からその日のスケジュールへのマップ。
// 設定されていない曜日はキー自体が存在しない。
type WeekSchedule map[string]DaySchedule

// ValidDay はdayが有効な曜日名かどうかを返す。
func ValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// ParseClock はHH:mm形式の時刻文字列を0時からの経過分数に変換する。
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("時刻 %q の解析に失敗: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Duration は就寝時刻から起床時刻までの睡眠時間を計算する。
// 起床時刻が就寝時刻より前の場合は翌日の起床とみなして24時間を加算する。
// 同時刻の場合は0を返す。
func Duration(bedtime, wakeUpTime string) (time.Duration, error) {
	bed, err := ParseClock(bedtime)
	if err != nil {
		return 0, err
	}
	wake, err := ParseClock(wakeUpTime)
	if err != nil {
		return 0, err
	}
	if wake < bed {
		wake += 24 * 60
	}
	return time.Duration(wake-bed) * time.Minute, nil
}

// BuildPrompt は週間スケジュールからAI推薦用のプロンプトを組み立てる。
// 設定されている曜日のみを週の順に列挙する。
func BuildPrompt(schedule WeekSchedule) string {
	var b strings.Builder
	b.WriteString("You are a sleep analysis expert. Based on the user's weekly sleep schedule, provide a recommendation.\n\n")
	b.WriteString("Analyze the consistency of their bedtimes, wake-up times, and total sleep duration for each day. ")
	b.WriteString("Note any large variations, especially between weekdays and weekends.\n\n")
	b.WriteString("Here is the user's schedule:\n")
	for _, day := range Days {
		ds, ok := schedule[day]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s%s: Bedtime: %s, Wake-up: %s\n",
			strings.ToUpper(day[:1]), day[1:], ds.Bedtime, ds.WakeUpTime)
	}
	b.WriteString("\nProvide actionable advice to improve their sleep hygiene. ")
	b.WriteString("If the schedule is good and consistent, the recommendation should be positive and encouraging.\n")
	b.WriteString("The recommendation should be a few sentences long.")
	return b.String()
}
