package metrics

import (
	"testing"

	"github.com/onlyoffice/signupgate/gate"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDecision(t *testing.T) {
	before := testutil.ToFloat64(decisions.WithLabelValues("rejected", "missing"))

	ObserveDecision("rejected", gate.ReasonMissing)
	ObserveDecision("rejected", gate.ReasonMissing)

	assert.Equal(t, before+2, testutil.ToFloat64(decisions.WithLabelValues("rejected", "missing")))
}

func TestRegisterDefault_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		RegisterDefault(nil)
		RegisterDefault(nil)
	})
}
