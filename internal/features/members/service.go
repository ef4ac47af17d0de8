// Package members: service.go содержит логику реестра пользователей:
// регистрацию при первом сообщении и разрешение ID в отображаемое имя.
package members

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Service управляет реестром пользователей.
type Service struct {
	repo Storage
}

// NewService создаёт новый сервис участников.
func NewService(repo Storage) *Service {
	return &Service{repo: repo}
}

// EnsureMember гарантирует, что пользователь есть в базе, и освежает его имя.
// Вызывается на каждом апдейте от администратора: имя в уведомлениях должно быть актуальным.
func (s *Service) EnsureMember(ctx context.Context, userID int64, username, firstName, lastName string, isAdmin bool) error {
	m := &Member{
		UserID:    userID,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		IsAdmin:   isAdmin,
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return fmt.Errorf("ошибка регистрации участника: %w", err)
	}
	return nil
}

// GetByUserID возвращает участника по его Telegram user ID.
func (s *Service) GetByUserID(ctx context.Context, userID int64) (*Member, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// Resolve возвращает отображаемое имя администратора.
// Если пользователь неизвестен или БД недоступна, возвращается числовой ID.
func (s *Service) Resolve(ctx context.Context, userID int64) string {
	m, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("имя администратора не найдено, используем ID")
		return strconv.FormatInt(userID, 10)
	}
	return m.DisplayName()
}
