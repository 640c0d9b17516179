package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"myday/internal/sleep"
	"myday/internal/store"
	"myday/pkg/middleware"
)

// handleGetSleepSchedule は認証済みユーザーの週間睡眠スケジュールを返すハンドラ。
// 設定されていない曜日はレスポンスに含まれない。
func (s *Server) handleGetSleepSchedule() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		schedule, err := s.loadSleepSchedule(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "睡眠スケジュールの取得に失敗しました"})
			s.log.Error("睡眠スケジュール取得エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusOK, schedule)
	}
}

// handlePutSleepSchedule は週間睡眠スケジュール全体を置き換えるハンドラ。
// 曜日名と時刻形式（HH:mm）を検証してから保存する。
func (s *Server) handlePutSleepSchedule() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		var schedule sleep.WeekSchedule
		if err := c.ShouldBindJSON(&schedule); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		for day, ds := range schedule {
			if !sleep.ValidDay(day) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "不正な曜日名です: " + day})
				return
			}
			if _, err := sleep.ParseClock(ds.Bedtime); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "就寝時刻はHH:mm形式で指定してください"})
				return
			}
			if _, err := sleep.ParseClock(ds.WakeUpTime); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "起床時刻はHH:mm形式で指定してください"})
				return
			}
		}

		if err := s.queries.DeleteSleepSchedulesByUserID(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "睡眠スケジュールの更新に失敗しました"})
			s.log.Error("睡眠スケジュール削除エラー", zap.Error(err))
			return
		}
		for day, ds := range schedule {
			if err := s.queries.UpsertSleepSchedule(c.Request.Context(), store.UpsertSleepScheduleParams{
				UserID:     userID,
				Day:        day,
				Bedtime:    ds.Bedtime,
				WakeUpTime: ds.WakeUpTime,
			}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "睡眠スケジュールの更新に失敗しました"})
				s.log.Error("睡眠スケジュール保存エラー", zap.Error(err))
				return
			}
		}

		c.JSON(http.StatusOK, schedule)
	}
}

// handleSleepRecommendation は週間睡眠スケジュールをAIに渡し、
// 睡眠習慣の推薦文を生成するハンドラ。
func (s *Server) handleSleepRecommendation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		schedule, err := s.loadSleepSchedule(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "睡眠スケジュールの取得に失敗しました"})
			s.log.Error("睡眠スケジュール取得エラー", zap.Error(err))
			return
		}
		if len(schedule) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "睡眠スケジュールが設定されていません"})
			return
		}

		recommendation, err := s.recommender.Complete(c.Request.Context(), sleep.BuildPrompt(schedule))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "AI推薦の生成に失敗しました。しばらくしてから再試行してください"})
			s.log.Error("AI推薦生成エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"weekly_recommendation": recommendation})
	}
}

// loadSleepSchedule はDBから週間スケジュールを読み込みWeekScheduleに変換する。
func (s *Server) loadSleepSchedule(c *gin.Context, userID string) (sleep.WeekSchedule, error) {
	rows, err := s.queries.ListSleepSchedulesByUserID(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}

	schedule := make(sleep.WeekSchedule, len(rows))
	for _, row := range rows {
		schedule[row.Day] = sleep.DaySchedule{
			Bedtime:    row.Bedtime,
			WakeUpTime: row.WakeUpTime,
		}
	}
	return schedule, nil
}
