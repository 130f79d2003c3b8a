package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/gacha-api/internal/handler/dto"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
	"github.com/yourusername/gacha-api/internal/service"
)

// PlayHandler обрабатывает запросы игрового цикла участника
type PlayHandler struct {
	playService  *service.PlayService
	wheelService *service.WheelService
}

// NewPlayHandler создает новый обработчик игрового цикла
func NewPlayHandler(playService *service.PlayService, wheelService *service.WheelService) *PlayHandler {
	return &PlayHandler{
		playService:  playService,
		wheelService: wheelService,
	}
}

// JoinRequest представляет запрос на вход по коду участника
type JoinRequest struct {
	Code string `json:"code" binding:"required,min=4,max=10"`
}

// Join обрабатывает вход участника по уникальному коду
// POST /api/play/join
func (h *PlayHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.playService.Join(req.Code)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetQuestions возвращает подборку нерешённых вопросов комнаты
// GET /api/play/questions?code=XXXX
func (h *PlayHandler) GetQuestions(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter is required"})
		return
	}

	questions, err := h.playService.GetQuestions(code)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": dto.NewListQuestionResponse(questions)})
}

// AnswerRequest представляет ответ участника на вопрос
type AnswerRequest struct {
	Code       string `json:"code" binding:"required,min=4,max=10"`
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required,max=500"`
}

// AnswerQuestion обрабатывает ответ участника
// POST /api/play/answer
func (h *PlayHandler) AnswerQuestion(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.playService.AnswerQuestion(req.Code, req.QuestionID, req.Answer)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SpinRequest представляет запрос на вращение колеса
type SpinRequest struct {
	Code string `json:"code" binding:"required,min=4,max=10"`
}

// Spin обрабатывает вращение призового колеса
// POST /api/play/spin
func (h *PlayHandler) Spin(c *gin.Context) {
	var req SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.wheelService.Spin(req.Code)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStatus возвращает сводку участника
// GET /api/play/status?code=XXXX
func (h *PlayHandler) GetStatus(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code query parameter is required"})
		return
	}

	status, err := h.playService.GetStatus(code)
	if err != nil {
		h.handleGameError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// handleGameError преобразует ошибки игрового цикла в HTTP-ответы
func (h *PlayHandler) handleGameError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrAlreadyAnswered) ||
		errors.Is(err, apperrors.ErrInsufficientTokens) ||
		errors.Is(err, apperrors.ErrNoRewardTiers) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in PlayHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
