package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// timeoutError мимикрирует под сетевой тайм-аут из net/http транспорта.
type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestResendRetryDelay_NetworkTimeout(t *testing.T) {
	wait, ok := resendRetryDelay(timeoutError{}, 0)

	assert.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, wait)
}

func TestResendRetryDelay_WrappedTimeout(t *testing.T) {
	err := errors.Join(errors.New("resend send"), timeoutError{})

	wait, ok := resendRetryDelay(err, 1)

	assert.True(t, ok)
	assert.Equal(t, time.Second, wait)
}

func TestResendRetryDelay_PermanentError(t *testing.T) {
	_, ok := resendRetryDelay(errors.New("422: invalid from address"), 0)

	assert.False(t, ok)
}
