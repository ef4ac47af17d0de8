package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/members"
)

// MemberRepository реализует members.Storage.
type MemberRepository struct {
	db *sql.DB
}

func (r *MemberRepository) Upsert(ctx context.Context, m *members.Member) error {
	if m == nil {
		return errors.New("nil member")
	}
	now := time.Now().UTC().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO members (user_id, username, first_name, last_name, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			is_admin   = excluded.is_admin,
			updated_at = excluded.updated_at`,
		m.UserID, m.Username, m.FirstName, m.LastName, boolToInt(m.IsAdmin), now, now,
	)
	if err != nil {
		return fmt.Errorf("%w: ошибка создания/обновления участника: %v", common.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *MemberRepository) GetByUserID(ctx context.Context, userID int64) (*members.Member, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, username, first_name, last_name, is_admin, created_at, updated_at
		FROM members
		WHERE user_id = ?`,
		userID,
	)

	var (
		m                members.Member
		isAdmin          int
		created, updated int64
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Username, &m.FirstName, &m.LastName, &isAdmin, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("участник user_id=%d: %w", userID, common.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%w: ошибка чтения участника (user_id=%d): %v", common.ErrStoreUnavailable, userID, err)
	}
	m.IsAdmin = isAdmin != 0
	m.CreatedAt = time.Unix(created, 0).UTC()
	m.UpdatedAt = time.Unix(updated, 0).UTC()
	return &m, nil
}
