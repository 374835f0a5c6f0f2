//go:build !linux

package dgcore

import (
	"os"

	"github.com/jdefrancesco/dirgen/internal/dgpath"
)

// createEmptyFileFast falls back to open(O_CREAT) immediately followed by
// close on non-Linux POSIX systems, which lack an equivalent to mknod that
// avoids allocating a file descriptor (spec §4.4).
func createEmptyFileFast(path *dgpath.PathBuf) error {
	f, err := createFile(path.String())
	if err != nil {
		return err
	}
	return f.Close()
}

// isolateFileDescriptorTable is a no-op outside Linux: only Linux's
// unshare(2) offers a per-thread file descriptor table to isolate (spec §5:
// "elsewhere, accept the shared default").
func isolateFileDescriptorTable() {}
