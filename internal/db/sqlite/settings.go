package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"serotonyl.ru/shopbot/internal/common"
	"serotonyl.ru/shopbot/internal/features/settings"
)

// SettingsRepository реализует settings.Store.
type SettingsRepository struct {
	db *sql.DB
}

func (r *SettingsRepository) Get(ctx context.Context) (settings.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT status_work, status_buy, status_refill, status_stars_buy,
		       stars_markup, misc_support, misc_faq
		FROM bot_settings
		WHERE id = 1`)

	var (
		rec                         settings.Record
		work, buy, refill, starsBuy int
	)
	if err := row.Scan(&work, &buy, &refill, &starsBuy, &rec.StarsMarkup, &rec.Support, &rec.FAQ); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.Record{}, fmt.Errorf("%w: запись настроек не создана", common.ErrStoreUnavailable)
		}
		return settings.Record{}, fmt.Errorf("%w: ошибка чтения настроек: %v", common.ErrStoreUnavailable, err)
	}
	rec.StatusWork = work != 0
	rec.StatusBuy = buy != 0
	rec.StatusRefill = refill != 0
	rec.StatusStarsBuy = starsBuy != 0
	return rec, nil
}

// Update записывает одно поле. Имя колонки берётся из каталога полей.
func (r *SettingsRepository) Update(ctx context.Context, field settings.Field, value any) error {
	if err := settings.CheckValue(field, value); err != nil {
		return err
	}

	arg := value
	if b, ok := value.(bool); ok {
		arg = boolToInt(b)
	}

	query := fmt.Sprintf(`UPDATE bot_settings SET "%s" = ?, updated_at = ? WHERE id = 1`, string(field))
	res, err := r.db.ExecContext(ctx, query, arg, time.Now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("%w: ошибка обновления %s: %v", common.ErrStoreUnavailable, field, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: запись настроек не создана", common.ErrStoreUnavailable)
	}
	return nil
}
