package helpdex_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/helpdex"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", helpdex.ErrorCode(nil))
	})

	t.Run("application error", func(t *testing.T) {
		t.Parallel()
		err := helpdex.Errorf(helpdex.ENOTFOUND, "source %q not found", "acme")
		assert.Equal(t, helpdex.ENOTFOUND, helpdex.ErrorCode(err))
		assert.Equal(t, `source "acme" not found`, helpdex.ErrorMessage(err))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("sync: %w", helpdex.Errorf(helpdex.ERATELIMIT, "rate limited"))
		assert.Equal(t, helpdex.ERATELIMIT, helpdex.ErrorCode(err))
	})

	t.Run("non-application error", func(t *testing.T) {
		t.Parallel()
		err := errors.New("boom")
		assert.Equal(t, helpdex.EINTERNAL, helpdex.ErrorCode(err))
		assert.Equal(t, "Internal error.", helpdex.ErrorMessage(err))
	})
}
