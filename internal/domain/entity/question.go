package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
)

// Типы вопросов
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
)

// Уровни (используются и для вопросов, и для призов)
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
	TierCustom = "custom"
)

// Ответы для вопросов true_false
const (
	AnswerTrue  = "True"
	AnswerFalse = "False"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if o == nil || len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Contains проверяет, присутствует ли значение в массиве
func (o StringArray) Contains(v string) bool {
	for _, s := range o {
		if s == v {
			return true
		}
	}
	return false
}

// Question представляет вопрос комнаты.
// Вопрос решается один раз на всю комнату: первый правильный ответ
// переводит solved в true, обратного перехода нет.
type Question struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	RoomID        uint        `gorm:"not null;index" json:"room_id"`
	QuestionText  string      `gorm:"size:500;not null" json:"question_text"`
	QuestionType  string      `gorm:"size:20;not null" json:"question_type"`
	Options       StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer string      `gorm:"size:255;not null" json:"-"` // Скрыто от клиента
	Tier          string      `gorm:"size:20;not null" json:"tier"`
	Solved        bool        `gorm:"not null;default:false;index" json:"solved"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsCorrect сравнивает ответ участника с правильным.
// Сравнение строгое, без нормализации и частичного зачёта.
func (q *Question) IsCorrect(answer string) bool {
	return q.CorrectAnswer == answer
}

// Validate проверяет инварианты вопроса перед сохранением:
// тип известен, правильный ответ входит в варианты (или True/False).
func (q *Question) Validate() error {
	if q.QuestionText == "" {
		return fmt.Errorf("%w: question text is required", apperrors.ErrValidation)
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("%w: correct answer is required", apperrors.ErrValidation)
	}
	switch q.Tier {
	case TierBronze, TierSilver, TierGold, TierCustom:
	default:
		return fmt.Errorf("%w: unknown tier %q", apperrors.ErrValidation, q.Tier)
	}
	switch q.QuestionType {
	case QuestionTypeMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: multiple choice question needs at least 2 options", apperrors.ErrValidation)
		}
		if !q.Options.Contains(q.CorrectAnswer) {
			return fmt.Errorf("%w: correct answer must be one of the options", apperrors.ErrValidation)
		}
	case QuestionTypeTrueFalse:
		if q.CorrectAnswer != AnswerTrue && q.CorrectAnswer != AnswerFalse {
			return fmt.Errorf("%w: true/false answer must be %q or %q", apperrors.ErrValidation, AnswerTrue, AnswerFalse)
		}
	default:
		return fmt.Errorf("%w: unknown question type %q", apperrors.ErrValidation, q.QuestionType)
	}
	return nil
}
