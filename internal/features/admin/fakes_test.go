package admin

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"serotonyl.ru/shopbot/internal/features/settings"
	"serotonyl.ru/shopbot/internal/metrics"
)

const (
	adminA int64 = 1
	adminB int64 = 2
	adminC int64 = 3
)

type sentBatch struct {
	ids  []int64
	text string
}

// fakeMessenger запоминает рассылки; получатели из fail не получают сообщение.
type fakeMessenger struct {
	mu      sync.Mutex
	batches []sentBatch
	fail    map[int64]error
}

func (m *fakeMessenger) SendToMany(ctx context.Context, ids []int64, text string) map[int64]error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.batches = append(m.batches, sentBatch{ids: append([]int64(nil), ids...), text: text})
	failures := make(map[int64]error)
	for _, id := range ids {
		if err, ok := m.fail[id]; ok {
			failures[id] = err
		}
	}
	return failures
}

func (m *fakeMessenger) sent() []sentBatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentBatch(nil), m.batches...)
}

type fakeRegistry map[int64]string

func (r fakeRegistry) Resolve(ctx context.Context, userID int64) string {
	if name, ok := r[userID]; ok {
		return name
	}
	return strconv.FormatInt(userID, 10)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context) (settings.Record, error) {
	args := m.Called(ctx)
	return args.Get(0).(settings.Record), args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, field settings.Field, value any) error {
	args := m.Called(ctx, field, value)
	return args.Error(0)
}

type testEnv struct {
	svc       *Service
	store     settings.Store
	messenger *fakeMessenger
	registry  *prometheus.Registry
}

func newTestEnv(t *testing.T, store settings.Store, maxAttempts int) *testEnv {
	t.Helper()

	if store == nil {
		store = settings.NewMemoryStore(settings.Defaults())
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	messenger := &fakeMessenger{}
	notifier := NewNotifier(messenger, []int64{adminA, adminB, adminC}, m)
	names := fakeRegistry{adminA: "Алиса", adminB: "Борис"}

	return &testEnv{
		svc:       NewService(store, names, NewSessions(), notifier, m, maxAttempts),
		store:     store,
		messenger: messenger,
		registry:  reg,
	}
}

func (e *testEnv) record(t *testing.T) settings.Record {
	t.Helper()
	rec, err := e.store.Get(context.Background())
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	return rec
}
