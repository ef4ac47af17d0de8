package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shopbot/internal/features/admin"
	"serotonyl.ru/shopbot/internal/features/settings"
)

type fakeBroadcaster struct {
	messages []string
}

func (f *fakeBroadcaster) NotifyAll(ctx context.Context, message string) admin.Report {
	f.messages = append(f.messages, message)
	return admin.Report{Recipients: 2, Delivered: 2}
}

func TestRemindMaintenance(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore(settings.Defaults())
	b := &fakeBroadcaster{}
	msk := time.FixedZone("MSK", 3*60*60)
	s := NewScheduler(msk, "0 */6 * * *", store, b)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }

	sent, err := s.RemindMaintenance(ctx)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, b.messages)

	require.NoError(t, store.Update(ctx, settings.FieldWork, true))

	sent, err = s.RemindMaintenance(ctx)
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, b.messages, 1)
	assert.Contains(t, b.messages[0], admin.MaintenanceReminder)
	assert.Contains(t, b.messages[0], "01.05.2024 12:00")
}

func TestScheduler_StartStop(t *testing.T) {
	store := settings.NewMemoryStore(settings.Defaults())

	s := NewScheduler(nil, "", store, &fakeBroadcaster{})
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	s = NewScheduler(time.UTC, "*/5 * * * *", store, &fakeBroadcaster{})
	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}
