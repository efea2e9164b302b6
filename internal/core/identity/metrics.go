package identity

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 操作名称（metrics 标签）
const (
	opCreate = "create"
	opLoad   = "load"
	opSave   = "save"
)

// ============================================================================
//                              Metrics
// ============================================================================

// Metrics 身份模块指标
//
// 方法对 nil 接收者安全，未配置 Registerer 时不记录。
type Metrics struct {
	operations      *prometheus.CounterVec
	generateSeconds *prometheus.HistogramVec
}

// NewMetrics 创建指标并注册到 reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "peerid",
			Subsystem: Name,
			Name:      "operations_total",
			Help:      "本地身份操作次数",
		}, []string{"op", "result"}),
		generateSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "peerid",
			Subsystem: Name,
			Name:      "generate_seconds",
			Help:      "生成密钥对耗时",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"key_type"}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.generateSeconds} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) observeGenerate(keyType string, d time.Duration) {
	if m == nil {
		return
	}
	m.generateSeconds.WithLabelValues(keyType).Observe(d.Seconds())
}
