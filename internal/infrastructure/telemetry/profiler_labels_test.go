package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabels(t *testing.T) {
	long := strings.Repeat("a", MaxLabelValueLength+10)
	got := sanitizeLabels(map[string]string{
		"Operation":   "record_payment",
		"HTTP Route":  "/api/payments",
		"user_id":     "u-1",
		"contract-id": "c-1",
		"empty":       "",
		"!!":          "x",
		"role":        long,
	})
	assert.Equal(t, []string{
		"http_route", "/api/payments",
		"operation", "record_payment",
		"role", long[:MaxLabelValueLength],
	}, got)
}

func TestSanitizeLabelKey(t *testing.T) {
	assert.Equal(t, "http_route", sanitizeLabelKey("HTTP Route"))
	assert.Equal(t, "contract_id", sanitizeLabelKey("contract-id"))
	assert.Equal(t, "", sanitizeLabelKey("!!"))
}

func TestWithProfilingLabels(t *testing.T) {
	var op, role string
	var called bool
	WithProfilingLabels(context.Background(), OperationLabels("approve_proof", "owner"), func(ctx context.Context) {
		called = true
		op, _ = pprof.Label(ctx, ProfilingLabelOperation)
		role, _ = pprof.Label(ctx, ProfilingLabelRole)
	})
	assert.True(t, called)
	assert.Equal(t, "approve_proof", op)
	assert.Equal(t, "owner", role)

	called = false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)

	assert.Equal(t, map[string]string{ProfilingLabelRoute: "/r", ProfilingLabelMethod: "GET"}, HTTPRequestLabels("/r", "GET"))
	assert.Equal(t, map[string]string{ProfilingLabelOperation: "x"}, OperationLabels("x", ""))
}
