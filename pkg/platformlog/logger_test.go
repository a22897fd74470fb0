package platformlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DevelopmentAndProduction(t *testing.T) {
	dev, err := New("local", "debug")
	assert.NoError(t, err)
	assert.NotNil(t, dev)

	prod, err := New("production", "")
	assert.NoError(t, err)
	assert.NotNil(t, prod)
}

func TestContextWithLogger_RoundTrips(t *testing.T) {
	logger := NewNop()
	ctx := ContextWithLogger(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
	l.Infof("noop %s", "ok")
}

func TestWith_ReturnsNewLogger(t *testing.T) {
	base := NewNop()
	derived := base.With("correlationId", "abc")

	assert.NotNil(t, derived)
}
