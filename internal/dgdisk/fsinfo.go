// Package dgdisk is the CLI collaborator's disk-space preflight helper: it
// reports how much free space sits under the target root before the
// coordinator starts creating directories and files there.
package dgdisk

import (
	"fmt"
	"path/filepath"

	sigar "github.com/cloudfoundry/gosigar"
)

// Usage summarizes the filesystem backing a directory, in bytes.
type Usage struct {
	MountPoint string
	Total      uint64
	Used       uint64
	Avail      uint64
	UsePercent float64
}

const OutputFormat = "%-15s %4s %4s %5s %4s %-15s\n"

// Stat reports free/used/total space for the filesystem that holds dir. dir
// need not exist yet; gosigar resolves the usage of whichever mount point
// contains it.
func Stat(dir string) (Usage, error) {
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return Usage{}, fmt.Errorf("resolve absolute path for %s: %w", dir, err)
	}

	usage := sigar.FileSystemUsage{}
	if err := usage.Get(absDir); err != nil {
		return Usage{}, fmt.Errorf("stat filesystem usage for %s: %w", absDir, err)
	}

	return Usage{
		MountPoint: absDir,
		Total:      usage.Total * 1024,
		Used:       usage.Used * 1024,
		Avail:      usage.Avail * 1024,
		UsePercent: usage.UsePercent(),
	}, nil
}

// WouldExceedAvailable reports whether a planned write of wantBytes would
// leave less than headroomBytes of free space on dir's filesystem. The CLI
// collaborator uses this to warn, not fail, before a large run.
func WouldExceedAvailable(dir string, wantBytes, headroomBytes uint64) (bool, Usage, error) {
	u, err := Stat(dir)
	if err != nil {
		return false, Usage{}, err
	}
	if wantBytes+headroomBytes > u.Avail {
		return true, u, nil
	}
	return false, u, nil
}

// FormatSize renders a byte count the way gosigar's CLI-facing helpers do
// (KiB-based, human-readable units).
func FormatSize(bytes uint64) string {
	return sigar.FormatSize(bytes)
}

// ListFileSystems prints every mounted filesystem's usage, the same report
// the teacher's disk tooling offered as a standalone diagnostic.
func ListFileSystems(w fmtPrinter) {
	fsList := sigar.FileSystemList{}
	if err := fsList.Get(); err != nil {
		return
	}

	fmt.Fprintf(w, OutputFormat, "Filesystem", "Size", "Used", "Avail", "Use%", "Mounted On")

	for _, fs := range fsList.List {
		usage := sigar.FileSystemUsage{}
		if err := usage.Get(fs.DirName); err != nil {
			continue
		}
		fmt.Fprintf(w, OutputFormat,
			fs.DevName,
			FormatSize(usage.Total*1024),
			FormatSize(usage.Used*1024),
			FormatSize(usage.Avail*1024),
			sigar.FormatPercent(usage.UsePercent()),
			fs.DirName)
	}
}

type fmtPrinter interface {
	Write(p []byte) (int, error)
}
