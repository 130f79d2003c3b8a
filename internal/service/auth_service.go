package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/gacha-api/internal/domain/entity"
	"github.com/yourusername/gacha-api/internal/domain/repository"
	apperrors "github.com/yourusername/gacha-api/internal/pkg/errors"
	"github.com/yourusername/gacha-api/pkg/auth"
)

// Время жизни токена сброса пароля
const passwordResetTTL = 30 * time.Minute

// Минимальная длина пароля администратора
const minPasswordLength = 8

// AuthService предоставляет регистрацию и аутентификацию администраторов
type AuthService struct {
	userRepo          repository.UserRepository
	passwordResetRepo repository.PasswordResetRepository
	jwtService        *auth.JWTService
	emailService      EmailService
	resetBaseURL      string
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	passwordResetRepo repository.PasswordResetRepository,
	jwtService *auth.JWTService,
	emailService EmailService,
	resetBaseURL string,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		passwordResetRepo: passwordResetRepo,
		jwtService:        jwtService,
		emailService:      emailService,
		resetBaseURL:      resetBaseURL,
	}
}

// Register создает нового администратора.
// Пароль хешируется bcrypt-хуком сущности перед сохранением.
func (s *AuthService) Register(name, email, password string) (*entity.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", apperrors.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	if _, err := s.userRepo.GetAdminByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrValidation)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user := &entity.User{
		ID:       fmt.Sprintf("admin_%s", uuid.NewString()),
		Name:     name,
		Role:     entity.RoleAdmin,
		Email:    email,
		Password: password,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован администратор %s (%s)", user.ID, email)
	return user, nil
}

// Login проверяет учётные данные и возвращает JWT токен доступа.
// Неверный email и неверный пароль не различаются в ответе.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetAdminByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil, apperrors.ErrUnauthorized
		}
		return "", nil, err
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неудачная попытка входа для %s", email)
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ForgotPassword запускает восстановление пароля.
// Ответ одинаков для существующего и несуществующего email:
// наличие учётной записи не раскрывается.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetAdminByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[AuthService] Запрос сброса пароля для неизвестного email")
			return nil
		}
		return err
	}

	rawToken, err := generateResetToken()
	if err != nil {
		return err
	}

	resetToken := &entity.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hashResetToken(rawToken),
		ExpiresAt: time.Now().Add(passwordResetTTL),
	}
	if err := s.passwordResetRepo.Create(resetToken); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s?token=%s", s.resetBaseURL, rawToken)
	if err := s.emailService.SendPasswordReset(ctx, user.Email, resetLink); err != nil {
		log.Printf("[AuthService] Ошибка отправки письма сброса пароля для %s: %v", user.ID, err)
		return err
	}

	log.Printf("[AuthService] Письмо сброса пароля отправлено для %s", user.ID)
	return nil
}

// ResetPassword устанавливает новый пароль по токену сброса.
// Токен одноразовый: после успешного сброса помечается использованным.
func (s *AuthService) ResetPassword(rawToken, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	token, err := s.passwordResetRepo.GetByHash(hashResetToken(rawToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrUnauthorized
		}
		return err
	}
	if !token.IsUsable(time.Now()) {
		return apperrors.ErrUnauthorized
	}

	if err := s.userRepo.UpdatePassword(token.UserID, newPassword); err != nil {
		return err
	}
	if err := s.passwordResetRepo.MarkUsed(token.ID); err != nil {
		// Пароль уже сменён; ошибку пометки логируем, но не откатываем
		log.Printf("[AuthService] Не удалось пометить токен сброса #%d использованным: %v", token.ID, err)
	}

	log.Printf("[AuthService] Пароль пользователя %s сброшен", token.UserID)
	return nil
}

// CleanupExpiredResetTokens удаляет истекшие токены сброса
func (s *AuthService) CleanupExpiredResetTokens() {
	deleted, err := s.passwordResetRepo.DeleteExpired()
	if err != nil {
		log.Printf("[AuthService] Ошибка очистки истекших токенов сброса: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[AuthService] Удалено %d истекших токенов сброса", deleted)
	}
}

// generateResetToken возвращает криптостойкий токен сброса в hex
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// hashResetToken возвращает SHA-256 хеш токена для хранения в БД
func hashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
