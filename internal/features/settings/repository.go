// Package settings: repository.go работает с таблицей bot_settings в PostgreSQL.
// В таблице ровно одна строка (id = 1), её создаёт миграция.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/shopbot/internal/common"
)

// Repository: реализация Store поверх pgxpool.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий настроек.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Get читает запись настроек.
func (r *Repository) Get(ctx context.Context) (Record, error) {
	query := `
		SELECT status_work, status_buy, status_refill, status_stars_buy,
		       stars_markup, misc_support, misc_faq
		FROM bot_settings
		WHERE id = 1
	`
	var rec Record
	err := r.db.QueryRow(ctx, query).Scan(
		&rec.StatusWork, &rec.StatusBuy, &rec.StatusRefill, &rec.StatusStarsBuy,
		&rec.StarsMarkup, &rec.Support, &rec.FAQ,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, fmt.Errorf("%w: запись настроек не создана", common.ErrStoreUnavailable)
		}
		return Record{}, fmt.Errorf("%w: ошибка чтения настроек: %v", common.ErrStoreUnavailable, err)
	}
	return rec, nil
}

// Update записывает одно поле одним UPDATE-запросом.
// Имя колонки берётся только из каталога полей, поэтому подстановка безопасна.
func (r *Repository) Update(ctx context.Context, field Field, value any) error {
	if err := CheckValue(field, value); err != nil {
		return err
	}

	column := pgx.Identifier{string(field)}.Sanitize()
	query := fmt.Sprintf(`UPDATE bot_settings SET %s = $1, updated_at = NOW() WHERE id = 1`, column)

	tag, err := r.db.Exec(ctx, query, value)
	if err != nil {
		return fmt.Errorf("%w: ошибка обновления %s: %v", common.ErrStoreUnavailable, field, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: запись настроек не создана", common.ErrStoreUnavailable)
	}
	return nil
}
