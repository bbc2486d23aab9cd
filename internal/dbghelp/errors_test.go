package dbghelp

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastError(t *testing.T) {
	tests := []struct {
		name      string
		errno     syscall.Errno
		cancelled bool
	}{
		{"zero", 0, false},
		{"access denied", syscall.Errno(5), false},
		{"hresult cancelled", syscall.Errno(hresultCancelled), true},
		{"win32 cancelled", syscall.Errno(errorCancelled), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lastError(tt.errno)
			assert.Error(t, err)
			assert.Equal(t, tt.cancelled, errors.Is(err, ErrCancelled))

			if tt.errno != 0 {
				var errno syscall.Errno
				assert.True(t, errors.As(err, &errno))
				assert.Equal(t, tt.errno, errno)
			}
		})
	}
}
