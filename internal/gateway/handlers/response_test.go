package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ventaspro/config"
)

func TestTimeoutsFromFollowsHTTPConfig(t *testing.T) {
	got := TimeoutsFrom(config.HTTPConfig{ReadTimeout: 7 * time.Second, WriteTimeout: 42 * time.Second})
	assert.Equal(t, 7*time.Second, got.Read)
	assert.Equal(t, 42*time.Second, got.Write)
}

func TestTimeoutsFromDefaultsUnsetValues(t *testing.T) {
	got := TimeoutsFrom(config.HTTPConfig{})
	assert.Equal(t, defaultReadTimeout, got.Read)
	assert.Equal(t, defaultWriteTimeout, got.Write)

	got = TimeoutsFrom(config.HTTPConfig{WriteTimeout: time.Minute})
	assert.Equal(t, defaultReadTimeout, got.Read)
	assert.Equal(t, time.Minute, got.Write)
}
