package middleware

import (
	"sync"
	"time"
)

// RateLimiter не даёт одному администратору завалить панель апдейтами:
// не больше limit сообщений и нажатий кнопок за window на каждого.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[int64][]time.Time // adminID -> отметки внутри окна, по возрастанию
	limit  int
	window time.Duration
	now    func() time.Time

	closeOnce sync.Once
	done      chan struct{}
}

// NewRateLimiter запускает фоновую чистку простаивающих администраторов раз в window.
// Остановить её можно через Close.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[int64][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
		done:   make(chan struct{}),
	}
	go rl.sweepLoop(window)
	return rl
}

func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() { close(rl.done) })
}

// Allow учитывает апдейт adminID и сообщает, укладывается ли он в лимит.
// Отклонённый апдейт в окно не записывается.
func (rl *RateLimiter) Allow(adminID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	hits := rl.expire(rl.hits[adminID], now)
	if len(hits) >= rl.limit {
		rl.hits[adminID] = hits
		return false
	}
	rl.hits[adminID] = append(hits, now)
	return true
}

// expire отрезает отметки старше окна. Отметки отсортированы, поэтому
// достаточно найти первую живую.
func (rl *RateLimiter) expire(hits []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for adminID, hits := range rl.hits {
		if hits = rl.expire(hits, now); len(hits) == 0 {
			delete(rl.hits, adminID)
			continue
		}
		rl.hits[adminID] = hits
	}
}

func (rl *RateLimiter) sweepLoop(every time.Duration) {
	if every < time.Minute {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}
