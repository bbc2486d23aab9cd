//go:build !windows && !unix

package crashdump

import "os"

func terminate() {
	os.Exit(2)
}
