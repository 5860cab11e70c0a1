package codemap

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestMapperBothDirections(t *testing.T) {
	m := New(
		map[string]string{"DLX": "DELUXE-K"},
		map[string]string{"BAR": "RACK-1"},
		testLogger(),
	)

	assert.Equal(t, "DELUXE-K", m.ToExternal(KindRoom, "DLX"))
	assert.Equal(t, "DLX", m.ToInternal(KindRoom, "DELUXE-K"))
	assert.Equal(t, "RACK-1", m.ToExternal(KindRatePlan, "BAR"))
	assert.Equal(t, "BAR", m.ToInternal(KindRatePlan, "RACK-1"))
}

func TestMapperIdentityFallback(t *testing.T) {
	m := New(nil, nil, testLogger())

	// Unmapped codes pass through unchanged in both directions.
	assert.Equal(t, "UNKNOWN", m.ToExternal(KindRoom, "UNKNOWN"))
	assert.Equal(t, "UNKNOWN", m.ToInternal(KindRatePlan, "UNKNOWN"))
}
