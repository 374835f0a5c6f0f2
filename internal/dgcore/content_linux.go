//go:build linux

package dgcore

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/jdefrancesco/dirgen/internal/dgpath"
)

// createEmptyFileFast uses mknodat to create a zero-byte regular file
// without opening a file descriptor for it, the fastest primitive Linux
// offers for this (spec §4.4). It goes through path's NUL-terminated
// CStringView (spec C2/§4.2) and calls SYS_MKNODAT directly instead of
// unix.Mknodat, which would otherwise allocate a fresh C string on every
// call via BytePtrFromString — exactly the per-call allocation the fast
// path exists to avoid.
func createEmptyFileFast(path *dgpath.PathBuf) error {
	var err error
	path.CStringView(func(cstr []byte) {
		_, _, errno := unix.Syscall6(unix.SYS_MKNODAT,
			uintptr(unix.AT_FDCWD),
			uintptr(unsafe.Pointer(&cstr[0])),
			uintptr(unix.S_IFREG|fileMode),
			0, 0, 0)
		if errno != 0 {
			err = errno
		}
	})
	return err
}

// isolateFileDescriptorTable unshares the calling OS thread's file
// descriptor table so a worker's open/close traffic never contends with any
// other thread's table (spec §5 "Per-thread resources"). The caller must
// have already pinned the current goroutine to its OS thread with
// runtime.LockOSThread, since Unshare(CLONE_FILES) operates on the thread,
// not the goroutine. Best-effort: a failure here (e.g. under a restrictive
// seccomp profile) just means descriptor-table contention isn't isolated,
// not that the task can't proceed.
func isolateFileDescriptorTable() {
	_ = unix.Unshare(unix.CLONE_FILES)
}
