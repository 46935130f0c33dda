//go:build windows

package docx

import "os"

// newFileMode is the mode regular file gets when created by os.Create.
func newFileMode() os.FileMode {
	return 0666
}
