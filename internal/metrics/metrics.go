// Package metrics: 봇 동작 지표를 Prometheus 전용 레지스트리에 기록한다.
// 모든 메서드는 nil 리시버에서도 안전하게 동작한다.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "guildbot"

// Result 라벨 값
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics 는 봇 지표 모음이다.
type Metrics struct {
	registry *prometheus.Registry

	triggers         *prometheus.CounterVec
	recomputes       *prometheus.CounterVec
	recomputeSeconds prometheus.Histogram
	publishes        *prometheus.CounterVec
	rosterMembers    *prometheus.GaugeVec
	commands         *prometheus.CounterVec
	events           *prometheus.CounterVec
	truncations      prometheus.Counter
}

// New: 전용 레지스트리를 만들고 지표를 등록한다. Go 런타임/프로세스 수집기도 함께 등록한다.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(registry)
}

// NewWithRegistry: 주어진 레지스트리에 지표를 등록한다. (테스트용)
func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_triggers_total",
			Help:      "Recompute triggers received, by source and outcome",
		}, []string{"source", "outcome"}),
		recomputes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_recomputes_total",
			Help:      "Completed recompute runs by result",
		}, []string{"result"}),
		recomputeSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scheduler_recompute_duration_seconds",
			Help:      "Duration of fetch+aggregate+publish runs",
			Buckets:   prometheus.DefBuckets,
		}),
		publishes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presence_publishes_total",
			Help:      "Presence updates sent to the gateway by result",
		}, []string{"result"}),
		rosterMembers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_members",
			Help:      "Last aggregated non-bot member counts",
		}, []string{"kind"}),
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Handled commands by name and result",
		}, []string{"command", "result"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_events_total",
			Help:      "Gateway events routed by the bot, by kind",
		}, []string{"kind"}),
		truncations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_truncations_total",
			Help:      "Member lists that hit the chunk limit and dropped entries",
		}),
	}
}

// Registry 는 /metrics 노출용 레지스트리를 반환한다.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Trigger: 스케줄러 트리거 수신 (outcome: accepted, dropped)
func (m *Metrics) Trigger(source, outcome string) {
	if m == nil {
		return
	}
	m.triggers.WithLabelValues(source, outcome).Inc()
}

// Recompute: 재계산 한 회의 결과와 소요 시간을 기록한다.
func (m *Metrics) Recompute(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.recomputes.WithLabelValues(resultOf(err)).Inc()
	m.recomputeSeconds.Observe(elapsed.Seconds())
}

// Publish 는 presence 갱신 결과를 기록한다.
func (m *Metrics) Publish(err error) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(resultOf(err)).Inc()
}

// RosterCounts 는 마지막 집계 결과를 게이지로 기록한다.
func (m *Metrics) RosterCounts(active, total int) {
	if m == nil {
		return
	}
	m.rosterMembers.WithLabelValues("active").Set(float64(active))
	m.rosterMembers.WithLabelValues("total").Set(float64(total))
}

// Command 는 명령어 처리 결과를 기록한다.
func (m *Metrics) Command(name string, err error) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name, resultOf(err)).Inc()
}

// Event 는 게이트웨이 이벤트 수신을 기록한다.
func (m *Metrics) Event(kind string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(kind).Inc()
}

// Truncation 는 멤버 목록 잘림을 기록한다.
func (m *Metrics) Truncation() {
	if m == nil {
		return
	}
	m.truncations.Inc()
}

func resultOf(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
