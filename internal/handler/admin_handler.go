package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	"github.com/yourusername/gacha-api/internal/domain/repository"
	"github.com/yourusername/gacha-api/internal/handler/dto"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
	"github.com/yourusername/gacha-api/internal/service"
)

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler создает новый административный обработчик
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// adminID возвращает идентификатор администратора из контекста запроса
func adminID(c *gin.Context) string {
	return c.MustGet("userID").(string)
}

// CreateRoomRequest представляет запрос на создание комнаты
type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}

// CreateRoom обрабатывает создание игровой комнаты
// POST /api/rooms
func (h *AdminHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.adminService.CreateRoom(adminID(c), req.Name)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRoomResponse(room))
}

// ListRooms возвращает комнаты администратора
// GET /api/rooms
func (h *AdminHandler) ListRooms(c *gin.Context) {
	rooms, err := h.adminService.ListRooms(adminID(c))
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": dto.NewListRoomResponse(rooms)})
}

// GetRoom возвращает одну комнату администратора
// GET /api/rooms/:id
func (h *AdminHandler) GetRoom(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	room, err := h.adminService.GetRoom(adminID(c), roomID)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRoomResponse(room))
}

// SetRoomActiveRequest представляет запрос на открытие/закрытие комнаты
type SetRoomActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetRoomActive открывает или закрывает комнату
// PATCH /api/rooms/:id/active
func (h *AdminHandler) SetRoomActive(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	var req SetRoomActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.SetRoomActive(adminID(c), roomID, *req.Active); err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// QuestionRequest представляет один вопрос в запросе
type QuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=3,max=500"`
	QuestionType  string   `json:"question_type" binding:"required"`
	Options       []string `json:"options" binding:"omitempty,max=10"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,max=500"`
	Tier          string   `json:"tier" binding:"required"`
}

func (r *QuestionRequest) toEntity() entity.Question {
	return entity.Question{
		QuestionText:  r.Text,
		QuestionType:  r.QuestionType,
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Tier:          r.Tier,
	}
}

// CreateQuestion добавляет один вопрос в комнату
// POST /api/rooms/:id/questions
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.toEntity()
	created, err := h.adminService.CreateQuestion(adminID(c), roomID, &question)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuestionResponse(created))
}

// CreateQuestionsBulkRequest представляет пакет вопросов
type CreateQuestionsBulkRequest struct {
	Questions []QuestionRequest `json:"questions" binding:"required,min=1,max=200,dive"`
}

// CreateQuestionsBulk добавляет пакет вопросов по принципу "всё или ничего"
// POST /api/rooms/:id/questions/bulk
func (h *AdminHandler) CreateQuestionsBulk(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	var req CreateQuestionsBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for i := range req.Questions {
		questions = append(questions, req.Questions[i].toEntity())
	}

	created, err := h.adminService.CreateQuestionsBulk(adminID(c), roomID, questions)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"questions": dto.NewListQuestionResponse(created)})
}

// ListQuestions возвращает вопросы комнаты
// GET /api/rooms/:id/questions
func (h *AdminHandler) ListQuestions(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	questions, err := h.adminService.ListQuestions(adminID(c), roomID)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": dto.NewListQuestionResponse(questions)})
}

// RewardTierRequest представляет запрос на создание призового уровня
type RewardTierRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Tier        string  `json:"tier" binding:"required"`
	Probability float64 `json:"probability" binding:"required,gt=0,lte=100"`
	ThrAmount   int     `json:"thr_amount" binding:"required,gt=0"`
}

// CreateRewardTier добавляет призовой уровень колеса
// POST /api/rooms/:id/reward-tiers
func (h *AdminHandler) CreateRewardTier(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	var req RewardTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tier := &entity.RewardTier{
		Name:        req.Name,
		Tier:        req.Tier,
		Probability: req.Probability,
		ThrAmount:   req.ThrAmount,
	}
	created, err := h.adminService.CreateRewardTier(adminID(c), roomID, tier)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRewardTierResponse(created))
}

// ListRewardTiers возвращает призовые уровни комнаты
// GET /api/rooms/:id/reward-tiers
func (h *AdminHandler) ListRewardTiers(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	tiers, err := h.adminService.ListRewardTiers(adminID(c), roomID)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reward_tiers": dto.NewListRewardTierResponse(tiers)})
}

// GenerateParticipantsRequest представляет запрос на генерацию кодов участников
type GenerateParticipantsRequest struct {
	Count  int    `json:"count" binding:"required,min=1,max=100"`
	Prefix string `json:"prefix" binding:"omitempty,max=3,alphanum"`
}

// GenerateParticipants создает участников с уникальными кодами входа
// POST /api/rooms/:id/participants/generate
func (h *AdminHandler) GenerateParticipants(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	var req GenerateParticipantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	participants, err := h.adminService.GenerateParticipants(adminID(c), roomID, req.Count, req.Prefix)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"participants": dto.NewListParticipantResponse(participants)})
}

// ListParticipants возвращает участников комнаты
// GET /api/rooms/:id/participants
func (h *AdminHandler) ListParticipants(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	participants, err := h.adminService.ListParticipants(adminID(c), roomID)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": dto.NewListParticipantResponse(participants)})
}

// RoomResults возвращает агрегированные итоги комнаты
// GET /api/rooms/:id/results
func (h *AdminHandler) RoomResults(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)

	results, err := h.adminService.RoomResults(adminID(c), roomID)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ExportRoomResults экспортирует итоги комнаты в CSV или Excel формате
// GET /api/rooms/:id/results/export?format=csv|xlsx
func (h *AdminHandler) ExportRoomResults(c *gin.Context) {
	roomID := c.MustGet("roomID").(uint)
	format := c.DefaultQuery("format", "csv")

	results, err := h.adminService.RoomResults(adminID(c), roomID)
	if err != nil {
		h.handleAdminError(c, err)
		return
	}

	filename := fmt.Sprintf("room_%d_results_%s", roomID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

// exportCSV экспортирует итоги в CSV с правильным экранированием спецсимволов
func (h *AdminHandler) exportCSV(c *gin.Context, results []repository.RoomResult, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Заголовки
	writer.Write([]string{"Участник", "Код", "Отвечено вопросов", "Остаток жетонов", "Заработано THR"})

	for _, r := range results {
		writer.Write([]string{
			sanitizeForExcel(r.Name),
			sanitizeForExcel(r.UniqueCode),
			strconv.Itoa(r.QuestionsAnswered),
			strconv.Itoa(r.TokensLeft),
			strconv.Itoa(r.TotalEarned),
		})
	}
}

// exportXLSX экспортирует итоги в Excel с использованием StreamWriter
func (h *AdminHandler) exportXLSX(c *gin.Context, results []repository.RoomResult, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Итоги"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AdminHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Участник", "Код", "Отвечено вопросов", "Остаток жетонов", "Заработано THR"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AdminHandler] Ошибка записи заголовков: %v", err)
	}

	for i, r := range results {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{sanitizeForExcel(r.Name), sanitizeForExcel(r.UniqueCode), r.QuestionsAnswered, r.TokensLeft, r.TotalEarned}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AdminHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AdminHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AdminHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// handleAdminError преобразует ошибки административных операций в HTTP-ответы
func (h *AdminHandler) handleAdminError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AdminHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
