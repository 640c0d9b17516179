package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"myday/internal/store"
	"myday/pkg/middleware"
)

// createTodoRequest はTodo作成リクエストのJSON構造。
type createTodoRequest struct {
	// Title はTodoのタイトル。
	Title string `json:"title" binding:"required"`
	// DueDate は期限日時（RFC3339形式）。省略可。
	DueDate *time.Time `json:"due_date"`
}

// updateTodoRequest はTodo更新リクエストのJSON構造。
type updateTodoRequest struct {
	// Title はTodoのタイトル。
	Title string `json:"title" binding:"required"`
	// Completed は完了フラグ。
	Completed bool `json:"completed"`
	// DueDate は期限日時（RFC3339形式）。nullで期限を解除する。
	DueDate *time.Time `json:"due_date"`
}

// todoResponse はTodoのJSONレスポンス構造。
type todoResponse struct {
	// ID はTodoの一意識別子。
	ID string `json:"id"`
	// Title はTodoのタイトル。
	Title string `json:"title"`
	// Completed は完了フラグ。
	Completed bool `json:"completed"`
	// DueDate は期限日時（RFC3339形式）。期限なしならnull。
	DueDate *string `json:"due_date"`
	// CreatedAt は作成日時（RFC3339形式）。
	CreatedAt string `json:"created_at"`
}

// toTodoResponse はDB行をJSONレスポンスに変換する。
func toTodoResponse(t store.Todo) todoResponse {
	resp := todoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed != 0,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
	if t.DueDate.Valid {
		due := t.DueDate.Time.Format(time.RFC3339)
		resp.DueDate = &due
	}
	return resp
}

// toNullTime は省略可能な時刻をsql.NullTimeに変換する。
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// handleCreateTodo はTodoを作成するハンドラ。
func (s *Server) handleCreateTodo() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		var req createTodoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		todoID := uuid.New().String()
		if err := s.queries.CreateTodo(c.Request.Context(), store.CreateTodoParams{
			ID:      todoID,
			UserID:  userID,
			Title:   req.Title,
			DueDate: toNullTime(req.DueDate),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todoの作成に失敗しました"})
			s.log.Error("Todo作成エラー", zap.Error(err))
			return
		}

		todo, err := s.queries.GetTodoByID(c.Request.Context(), todoID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todoの取得に失敗しました"})
			s.log.Error("Todo取得エラー", zap.Error(err))
			return
		}

		c.JSON(http.StatusCreated, toTodoResponse(todo))
	}
}

// handleListTodos は認証済みユーザーのTodo一覧を返すハンドラ。
func (s *Server) handleListTodos() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		todos, err := s.queries.ListTodosByUserID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todo一覧の取得に失敗しました"})
			s.log.Error("Todo一覧取得エラー", zap.Error(err))
			return
		}

		responses := make([]todoResponse, 0, len(todos))
		for _, t := range todos {
			responses = append(responses, toTodoResponse(t))
		}
		c.JSON(http.StatusOK, responses)
	}
}

// handleUpdateTodo はTodoのタイトル・完了フラグ・期限を更新するハンドラ。
func (s *Server) handleUpdateTodo() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		todoID := c.Param("id")
		todo, err := s.queries.GetTodoByID(c.Request.Context(), todoID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todoが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todoの取得に失敗しました"})
			s.log.Error("Todo取得エラー", zap.Error(err))
			return
		}
		if todo.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "このTodoを操作する権限がありません"})
			return
		}

		var req updateTodoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストが不正です"})
			return
		}

		completed := int64(0)
		if req.Completed {
			completed = 1
		}
		if err := s.queries.UpdateTodo(c.Request.Context(), store.UpdateTodoParams{
			ID:        todoID,
			Title:     req.Title,
			Completed: completed,
			DueDate:   toNullTime(req.DueDate),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todoの更新に失敗しました"})
			s.log.Error("Todo更新エラー", zap.Error(err))
			return
		}

		updated, err := s.queries.GetTodoByID(c.Request.Context(), todoID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todoの取得に失敗しました"})
			s.log.Error("Todo取得エラー", zap.Error(err))
			return
		}
		c.JSON(http.StatusOK, toTodoResponse(updated))
	}
}

// handleDeleteTodo はTodoを削除するハンドラ。
func (s *Server) handleDeleteTodo() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザーIDが取得できません"})
			return
		}

		todoID := c.Param("id")
		todo, err := s.queries.GetTodoByID(c.Request.Context(), todoID)
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todoが見つかりません"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todoの取得に失敗しました"})
			s.log.Error("Todo取得エラー", zap.Error(err))
			return
		}
		if todo.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "このTodoを操作する権限がありません"})
			return
		}

		if err := s.queries.DeleteTodo(c.Request.Context(), todoID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Todoの削除に失敗しました"})
			s.log.Error("Todo削除エラー", zap.Error(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Todoを削除しました"})
	}
}
