package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// LoginTotal считает попытки OAuth-логина по результату и провайдеру
	LoginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Количество попыток OAuth-логина",
		},
		[]string{"result", "provider"},
	)

	// RefreshTotal считает ротации refresh-токенов по результату
	RefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_refresh_total",
			Help: "Количество попыток ротации refresh-токена",
		},
		[]string{"result"},
	)

	// ReuseDetectedTotal считает сработавшие детекции повторного
	// использования refresh-токена
	ReuseDetectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_reuse_detected_total",
			Help: "Количество обнаруженных повторных использований refresh-токена",
		},
	)

	// LogoutTotal считает завершённые сессии
	LogoutTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_logout_total",
			Help: "Количество завершённых сессий",
		},
	)

	// PushSentTotal считает отправленные push-уведомления по результату
	PushSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_sent_total",
			Help: "Количество отправленных push-уведомлений",
		},
		[]string{"result"},
	)
)

// Register регистрирует все метрики сервиса в переданном реестре
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		LoginTotal,
		RefreshTotal,
		ReuseDetectedTotal,
		LogoutTotal,
		PushSentTotal,
	)
}
