package serializer

import (
	"fmt"
	"io"
	"time"

	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/message"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// InstrumentedSerializer wraps another serializer and records per message type:
//   - dsearch_serializer_calls_total: number of calls
//   - dsearch_serializer_errors_total: number of failed calls
//   - dsearch_serializer_bytes: payload size of successful calls
//   - dsearch_serializer_duration_seconds: call duration
//
// Every metric carries the labels op (serialize, deserialize), format and message.
type InstrumentedSerializer struct {
	inner   IRPCSerializer
	set     *metrics.Set
	handles *xsync.MapOf[handleKey, *opMetrics]
}

type handleKey struct {
	op      string
	message string
}

type opMetrics struct {
	calls    *metrics.Counter
	errors   *metrics.Counter
	bytes    *metrics.Histogram
	duration *metrics.Histogram
}

// NewInstrumentedSerializer wraps inner. The metrics are kept in their own set,
// see WritePrometheus.
func NewInstrumentedSerializer(inner IRPCSerializer) *InstrumentedSerializer {
	return &InstrumentedSerializer{
		inner:   inner,
		set:     metrics.NewSet(),
		handles: xsync.NewMapOf[handleKey, *opMetrics](),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (s *InstrumentedSerializer) Serialize(msg message.Message, version common.Version) ([]byte, error) {
	m := s.metricsFor("serialize", msg)
	start := time.Now()

	data, err := s.inner.Serialize(msg, version)

	m.record(start, len(data), err)
	return data, err
}

func (s *InstrumentedSerializer) Deserialize(b []byte, version common.Version, msg message.Message) error {
	m := s.metricsFor("deserialize", msg)
	start := time.Now()

	err := s.inner.Deserialize(b, version, msg)

	m.record(start, len(b), err)
	return err
}

func (s *InstrumentedSerializer) Format() string {
	return s.inner.Format()
}

// --------------------------------------------------------------------------
// Metric Access
// --------------------------------------------------------------------------

// WritePrometheus writes all recorded metrics in Prometheus text format to w
func (s *InstrumentedSerializer) WritePrometheus(w io.Writer) {
	s.set.WritePrometheus(w)
}

// Calls returns how many calls of op ("serialize", "deserialize") were made for a message type
func (s *InstrumentedSerializer) Calls(op, messageName string) uint64 {
	m, ok := s.handles.Load(handleKey{op: op, message: messageName})
	if !ok {
		return 0
	}
	return m.calls.Get()
}

// Errors returns how many calls of op failed for a message type
func (s *InstrumentedSerializer) Errors(op, messageName string) uint64 {
	m, ok := s.handles.Load(handleKey{op: op, message: messageName})
	if !ok {
		return 0
	}
	return m.errors.Get()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// metricsFor returns the metric handles for op and the type of msg, creating them on first use
func (s *InstrumentedSerializer) metricsFor(op string, msg message.Message) *opMetrics {
	key := handleKey{op: op, message: msg.Name()}
	m, _ := s.handles.LoadOrCompute(key, func() *opMetrics {
		labels := fmt.Sprintf(`{op=%q,format=%q,message=%q}`, op, s.inner.Format(), key.message)
		return &opMetrics{
			calls:    s.set.GetOrCreateCounter("dsearch_serializer_calls_total" + labels),
			errors:   s.set.GetOrCreateCounter("dsearch_serializer_errors_total" + labels),
			bytes:    s.set.GetOrCreateHistogram("dsearch_serializer_bytes" + labels),
			duration: s.set.GetOrCreateHistogram("dsearch_serializer_duration_seconds" + labels),
		}
	})
	return m
}

func (m *opMetrics) record(start time.Time, size int, err error) {
	m.calls.Inc()
	m.duration.UpdateDuration(start)
	if err != nil {
		m.errors.Inc()
		return
	}
	m.bytes.Update(float64(size))
}
