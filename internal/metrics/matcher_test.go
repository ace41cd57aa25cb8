package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMatchMetrics_Idempotent(t *testing.T) {
	RegisterMatchMetrics()
	RegisterMatchMetrics()

	MatchQueriesTotal.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(MatchQueriesTotal.WithLabelValues("ok")); got < 1 {
		t.Errorf("match_queries_total{status=ok} = %v", got)
	}

	var are prometheus.AlreadyRegisteredError
	if err := prometheus.Register(ModelDocuments); !errors.As(err, &are) {
		t.Errorf("expected model_documents to be registered already, got %v", err)
	}
}
