package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"TON_rewards_miniapp/internal/middleware"
	"TON_rewards_miniapp/internal/model"
	"TON_rewards_miniapp/internal/service"
	"TON_rewards_miniapp/pkg/auth"
	"TON_rewards_miniapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type fixedTaskRoutes struct {
	ts service.FixedTaskServiceI
	a  *auth.TelegramAuth
}

func NewFixedTaskRoutes(handler *gin.RouterGroup, ts service.FixedTaskServiceI, a *auth.TelegramAuth, authz *middleware.Authorization) {
	r := &fixedTaskRoutes{ts: ts, a: a}

	tasks := handler.Group("/tasks")
	{
		public := tasks.Group("/")
		public.Use(a.TelegramAuthMiddleware())
		{
			public.GET("/:telegram_id", r.GetFixedTasks)
			public.POST("/:telegram_id/:task_id/claim", r.ClaimFixedTask)
		}

		admin := tasks.Group("/admin")
		admin.Use(a.TelegramAuthMiddleware())
		admin.Use(authz.AdminOnly())
		{
			admin.POST("/new", r.CreateFixedTask)
			admin.PATCH("/:task_id/deactivate", r.DeactivateFixedTask)
		}
	}
}

type taskResponse struct {
	TaskID       string `json:"task_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PointsReward int    `json:"points_reward"`
	CreatedAt    int64  `json:"created_at"`
	Completed    bool   `json:"completed"`
}

func (r *fixedTaskRoutes) GetFixedTasks(c *gin.Context) {
	telegramID := c.Param("telegram_id")
	id, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	tasks, completed, err := r.ts.GetFixedTasks(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "telegram_id not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		_, done := completed[task.TaskID]
		response[i] = taskResponse{
			TaskID:       task.TaskID.String(),
			Title:        task.Title,
			Description:  task.Description,
			PointsReward: task.PointsReward,
			CreatedAt:    task.CreatedAt.Unix(),
			Completed:    done,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (r *fixedTaskRoutes) ClaimFixedTask(c *gin.Context) {
	log := logger.Logger()

	telegramID := c.Param("telegram_id")
	id, err := strconv.ParseInt(telegramID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	result, err := r.ts.ClaimFixedTask(c.Request.Context(), id, taskID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, result)
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, result)
		case errors.Is(err, service.ErrTaskAlreadyCompleted):
			c.JSON(http.StatusConflict, result)
		default:
			log.Error("failed to claim task", zap.Error(err))
			c.JSON(http.StatusInternalServerError, result)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

type CreateFixedTaskRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	PointsReward int    `json:"points_reward" binding:"required,min=1"`
}

func (r *fixedTaskRoutes) CreateFixedTask(c *gin.Context) {
	log := logger.Logger()

	var req CreateFixedTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	task := &model.FixedTask{
		TaskID:       uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		PointsReward: req.PointsReward,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	taskID, err := r.ts.CreateFixedTask(c.Request.Context(), task)
	if err != nil {
		log.Error("failed to create fixed task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"task_id": taskID.String(),
	})
}

func (r *fixedTaskRoutes) DeactivateFixedTask(c *gin.Context) {
	log := logger.Logger()

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	err = r.ts.DeactivateFixedTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		log.Error("failed to deactivate task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
