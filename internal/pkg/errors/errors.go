package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены
	// (участник, комната, вопрос). Контекст добавляется обёрткой через %w.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")
)

// Ошибки игрового цикла: ответ на вопрос -> жетон -> вращение колеса
var (
	// ErrAlreadyAnswered возвращается при повторной попытке ответить на тот же вопрос.
	// Инвариант обеспечивается уникальным индексом (user_id, question_id) в БД,
	// а не проверкой "прочитал-записал" в коде.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrInsufficientTokens возвращается при вращении колеса без жетонов.
	// Баланс при этом не изменяется.
	ErrInsufficientTokens = errors.New("no spin tokens available")

	// ErrNoRewardTiers возвращается при вращении в комнате без призовых уровней.
	ErrNoRewardTiers = errors.New("no reward tiers configured")
)
