// Package metrics содержит счётчики Prometheus для админ-процесса
// и HTTP-эндпоинт /metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Metrics: счётчики бота. Методы безопасны для nil-получателя,
// поэтому компоненты работают и без метрик.
type Metrics struct {
	workflowSteps *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
}

// New регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		workflowSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopbot",
			Name:      "workflow_steps_total",
			Help:      "Шаги админ-процесса по операции и исходу.",
		}, []string{"op", "disposition"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopbot",
			Name:      "broadcast_deliveries_total",
			Help:      "Доставки уведомлений администраторам по результату.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.workflowSteps, m.deliveries)
	return m
}

// WorkflowStep учитывает завершённый шаг процесса.
func (m *Metrics) WorkflowStep(op, disposition string) {
	if m == nil {
		return
	}
	m.workflowSteps.WithLabelValues(op, disposition).Inc()
}

// Delivery учитывает одну доставку уведомления.
func (m *Metrics) Delivery(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.deliveries.WithLabelValues(result).Inc()
}

// Serve поднимает /metrics на addr и останавливает сервер при отмене ctx.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("metrics: ошибка остановки сервера")
		}
	}()

	log.WithField("addr", addr).Info("metrics: сервер /metrics запущен")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("metrics: сервер остановился с ошибкой")
	}
}
