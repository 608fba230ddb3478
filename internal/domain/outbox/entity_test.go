package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	base := 30 * time.Second
	assert.Equal(t, 30*time.Second, Backoff(base, 0))
	assert.Equal(t, time.Minute, Backoff(base, 1))
	assert.Equal(t, 2*time.Minute, Backoff(base, 2))
	assert.Equal(t, 4*time.Minute, Backoff(base, 3))
	assert.Equal(t, time.Hour, Backoff(base, 10))
	assert.Equal(t, time.Hour, Backoff(base, 1000))
	assert.Equal(t, base, Backoff(base, -1))
}

func TestMessageFilter_Validate(t *testing.T) {
	f := MessageFilter{Status: " FAILED "}
	assert.NoError(t, f.Validate())
	assert.Equal(t, "failed", f.Status)

	f = MessageFilter{Status: "lost"}
	assert.Error(t, f.Validate())
}
