package encoding

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/52North/SOS-sub013/internal/config"
)

func TestNegotiator_Negotiate(t *testing.T) {
	supported := []string{config.ContentTypeJSON, config.ContentTypeXML}

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{name: "empty header", accept: "", want: config.ContentTypeJSON},
		{name: "exact xml", accept: "application/xml", want: config.ContentTypeXML},
		{name: "text xml", accept: "text/xml", want: config.ContentTypeXML},
		{name: "quality order", accept: "application/json;q=0.5, application/xml;q=0.9", want: config.ContentTypeXML},
		{name: "wildcard", accept: "*/*", want: config.ContentTypeJSON},
		{name: "partial wildcard", accept: "application/*", want: config.ContentTypeJSON},
		{name: "zero quality skipped", accept: "application/xml;q=0, application/json;q=0.1", want: config.ContentTypeJSON},
		{name: "no match", accept: "text/html", want: config.ContentTypeJSON},
		{name: "specific range wins", accept: "application/json;q=0.1, */*", want: config.ContentTypeXML},
		{name: "parameters ignored", accept: "application/xml; charset=utf-8", want: config.ContentTypeXML},
		{name: "malformed element skipped", accept: "garbage;;, application/xml", want: config.ContentTypeXML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNegotiator(supported)
			assert.Equal(t, tt.want, n.Negotiate(tt.accept))
		})
	}
}

func TestNegotiator_DefaultAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)

	n := NewNegotiator(nil,
		WithDefaultType(config.ContentTypeXML),
		WithNegotiatorMetrics(m),
	)
	assert.Equal(t, config.ContentTypeXML, n.Negotiate("text/html"))
	assert.Equal(t, config.ContentTypeJSON, n.Negotiate("application/json"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.negotiationsTotal.WithLabelValues(config.ContentTypeXML, "default")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.negotiationsTotal.WithLabelValues(config.ContentTypeJSON, "matched")))
}
