//go:build windows

package dbghelp

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

// minidumpSignature is "MDMP" read as a little-endian uint32.
const minidumpSignature = 0x504d444d

func readSignature(t *testing.T, path string) uint32 {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var header [4]byte
	_, err = io.ReadFull(f, header[:])
	require.NoError(t, err)
	return binary.LittleEndian.Uint32(header[:])
}

func TestProcessQueries(t *testing.T) {
	assert.Equal(t, uint32(os.Getpid()), CurrentProcessID())
	assert.NotZero(t, CurrentThreadID())
	assert.Equal(t, windows.CurrentProcess(), CurrentProcess())
}

func TestWriteDumpWithoutException(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.dmp")
	f, err := os.Create(path)
	require.NoError(t, err)

	err = WriteDump(f, MiniDumpNormal, nil)
	require.NoError(t, f.Close())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, uint32(minidumpSignature), readSignature(t, path))
}

func TestWriteDumpWithCapturedException(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ptrs, err := CaptureException(ExceptionGoPanic)
	require.NoError(t, err)
	require.NotNil(t, ptrs.ExceptionRecord)
	assert.Equal(t, ExceptionGoPanic, ptrs.ExceptionRecord.ExceptionCode)
	assert.Equal(t, uint32(ExceptionNoncontinuable), ptrs.ExceptionRecord.ExceptionFlags)
	assert.NotZero(t, ptrs.ExceptionRecord.ExceptionAddress)

	path := filepath.Join(t.TempDir(), "exception.dmp")
	f, err := os.Create(path)
	require.NoError(t, err)

	exc := NewExceptionInformation(CurrentThreadID(), ptrs.Addr(), false)
	err = WriteDump(f, MiniDumpWithDataSegs, exc)
	runtime.KeepAlive(ptrs)
	require.NoError(t, f.Close())
	require.NoError(t, err)

	assert.Equal(t, uint32(minidumpSignature), readSignature(t, path))
}

func TestMiniDumpWriteDumpInvalidHandle(t *testing.T) {
	err := MiniDumpWriteDump(CurrentProcess(), CurrentProcessID(), windows.InvalidHandle, MiniDumpNormal, nil, 0, 0)
	assert.Error(t, err)
}
