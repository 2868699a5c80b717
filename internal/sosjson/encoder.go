package sosjson

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/52North/SOS-sub013/internal/encoding"
	"github.com/52North/SOS-sub013/internal/observability"
)

// Encoder builds JSON documents. Its reference system settings may be
// changed at runtime; every other method is safe for concurrent use.
type Encoder struct {
	defaultSRID atomic.Int64
	crsPrefix   atomic.Pointer[string]
	prettyPrint atomic.Bool

	logger  observability.Logger
	metrics *encoding.Metrics
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(e *Encoder) {
		e.logger = logger
	}
}

// WithMetrics records every encoded document in m.
func WithMetrics(m *encoding.Metrics) Option {
	return func(e *Encoder) {
		e.metrics = m
	}
}

// WithDefaultSRID sets the reference system of top-level geometries.
func WithDefaultSRID(srid int) Option {
	return func(e *Encoder) {
		e.defaultSRID.Store(int64(srid))
	}
}

// WithCRSPrefix sets the prefix of CRS links.
func WithCRSPrefix(prefix string) Option {
	return func(e *Encoder) {
		e.crsPrefix.Store(&prefix)
	}
}

// NewEncoder creates an Encoder using DefaultSRID and DefaultCRSPrefix
// unless overridden.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{logger: observability.NopLogger()}
	e.defaultSRID.Store(DefaultSRID)
	prefix := DefaultCRSPrefix
	e.crsPrefix.Store(&prefix)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultSRID returns the reference system of top-level geometries.
func (e *Encoder) DefaultSRID() int {
	return int(e.defaultSRID.Load())
}

// SetDefaultSRID changes the reference system of top-level geometries.
func (e *Encoder) SetDefaultSRID(srid int64) error {
	if srid <= 0 {
		return fmt.Errorf("default SRID must be positive, got %d", srid)
	}
	e.defaultSRID.Store(srid)
	return nil
}

// CRSPrefix returns the prefix of CRS links.
func (e *Encoder) CRSPrefix() string {
	return *e.crsPrefix.Load()
}

// SetCRSPrefix changes the prefix of CRS links.
func (e *Encoder) SetCRSPrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return fmt.Errorf("CRS prefix must not be empty")
	}
	e.crsPrefix.Store(&prefix)
	return nil
}

// SetPrettyPrint toggles indentation of marshalled documents.
func (e *Encoder) SetPrettyPrint(pretty bool) error {
	e.prettyPrint.Store(pretty)
	return nil
}

// Marshal renders a document, indented when pretty printing is enabled.
func (e *Encoder) Marshal(n Node) ([]byte, error) {
	return encoding.MarshalJSON(n, e.prettyPrint.Load())
}

// observe records the outcome of encoding a document.
func (e *Encoder) observe(document string, start time.Time, err error) {
	if err != nil {
		e.logger.Debug("document encoding failed",
			observability.String("document", document),
			observability.Error(err),
		)
	}
	if e.metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	e.metrics.RecordEncode(document, result, time.Since(start).Seconds())
}
