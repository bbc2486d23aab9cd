//go:build unix

package crashdump

import (
	"os"

	"golang.org/x/sys/unix"
)

func terminate() {
	_ = unix.Kill(unix.Getpid(), unix.SIGKILL)
	os.Exit(2)
}
