//go:build !windows

package docx

import (
	"os"

	"golang.org/x/sys/unix"
)

// newFileMode is the mode regular file gets when created by os.Create.
func newFileMode() os.FileMode {
	mask := unix.Umask(0)
	unix.Umask(mask)
	return 0666 &^ os.FileMode(mask)
}
