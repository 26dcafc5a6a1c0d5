package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/relabs-tech/orientation_relay/internal/relay"
)

func TestRelayCounters(t *testing.T) {
	m := New()

	m.ConnectionAccepted("127.0.0.1:50000")
	if got := testutil.ToFloat64(m.connected); got != 1 {
		t.Errorf("expected connected gauge 1, got %v", got)
	}

	m.RecordSent("1.000000|2.000000|3.000000|3")
	m.RecordSent("1.000000|2.000000|3.000000|2")
	m.RecordSuppressed()
	m.WriteFailed(io.ErrShortWrite)
	m.ConnectionClosed("127.0.0.1:50000", fmt.Errorf("%w: %w", relay.ErrConnectionBroken, io.EOF))

	tests := []struct {
		name      string
		collector prometheus.Collector
		want      float64
	}{
		{name: "connected", collector: m.connected, want: 0},
		{name: "connections", collector: m.connections, want: 1},
		{name: "records sent", collector: m.recordsSent, want: 2},
		{name: "suppressed", collector: m.suppressed, want: 1},
		{name: "write failures", collector: m.writeFailures, want: 1},
		{name: "broken disconnects", collector: m.disconnects.WithLabelValues("broken"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.collector); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestReasonLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "none"},
		{name: "timeout", err: fmt.Errorf("%w: %w", relay.ErrConnectionBroken, os.ErrDeadlineExceeded), want: "timeout"},
		{name: "broken", err: fmt.Errorf("%w: %w", relay.ErrConnectionBroken, io.EOF), want: "broken"},
		{name: "shutdown", err: context.Canceled, want: "shutdown"},
		{name: "other", err: errors.New("boom"), want: "shutdown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reasonLabel(tt.err); got != tt.want {
				t.Errorf("reasonLabel(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordSent("x")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "orientation_relay_records_sent_total 1") {
		t.Errorf("expected records sent counter in output, got:\n%s", body)
	}
}
