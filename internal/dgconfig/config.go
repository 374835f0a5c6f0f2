// Package dgconfig holds the generator's Configuration type and the size
// planner (spec C8, §3, §4.8): the pure arithmetic that reduces a user's
// (files, maxDepth, ratio, bytes, seed) into the per-directory means the
// scheduler samples from.
package dgconfig

import (
	"encoding/binary"
	"fmt"
	"math"

	"lukechampine.com/blake3"
)

// Configuration is the core's validated, immutable input (spec §3).
type Configuration struct {
	RootDir string

	Files      uint64
	FilesExact bool

	Bytes      uint64
	BytesExact bool

	FillByte *byte

	// DirsPerDir is the mean subdirectory fanout per directory. Zero when
	// MaxDepth is zero.
	DirsPerDir float64
	// BytesPerFile is the mean byte count per file.
	BytesPerFile float64

	MaxDepth uint32

	// Seed is the derived 64-bit seed, already hashed from (Files, ratio,
	// MaxDepth, user seed) so that varying any shape parameter produces a
	// different tree even when the user seed is held fixed.
	Seed uint64
}

// PlanSummary carries the informational, human-facing numbers the CLI
// collaborator prints as its pre-run plan line (spec §6.3); the core never
// reads these back.
type PlanSummary struct {
	InformationalDirsPerDir   uint64
	InformationalTotalDirs    uint64
	InformationalBytesPerFile uint64
}

// Plan reduces the user-facing parameters (files N, ratio R, max depth D,
// total bytes B, and seed S) to a Configuration and an informational
// PlanSummary (spec §4.8). Validation here mirrors what spec §6.2 says the
// CLI collaborator must already have performed (files >= 1, 1 <= ratio <=
// files); Plan re-checks it defensively since it is the boundary between
// user input and the generation engine. The ratio bounds are only checked
// when maxDepth > 0; with maxDepth == 0 any ratio is accepted.
func Plan(rootDir string, files uint64, filesExact bool, bytes uint64, bytesExact bool, fillByte *byte, ratio uint64, maxDepth uint32, seed uint64) (Configuration, PlanSummary, error) {
	if files < 1 {
		return Configuration{}, PlanSummary{}, fmt.Errorf("files must be strictly positive, got %d", files)
	}
	if maxDepth > 0 {
		if ratio < 1 {
			return Configuration{}, PlanSummary{}, fmt.Errorf("file-to-dir ratio must be strictly positive, got %d", ratio)
		}
		if ratio > files {
			return Configuration{}, PlanSummary{}, fmt.Errorf("file-to-dir ratio (%d) cannot exceed files (%d)", ratio, files)
		}
	}

	derivedSeed := deriveSeed(files, ratio, maxDepth, seed)

	numFiles := float64(files)
	bytesPerFile := float64(bytes) / numFiles

	if maxDepth == 0 {
		return Configuration{
				RootDir:      rootDir,
				Files:        files,
				FilesExact:   filesExact,
				Bytes:        bytes,
				BytesExact:   bytesExact,
				FillByte:     fillByte,
				DirsPerDir:   0,
				BytesPerFile: bytesPerFile,
				MaxDepth:     0,
				Seed:         derivedSeed,
			}, PlanSummary{
				InformationalDirsPerDir:   0,
				InformationalTotalDirs:    1,
				InformationalBytesPerFile: uint64(math.Round(bytesPerFile)),
			}, nil
	}

	numDirs := numFiles / float64(ratio)
	// Derived from numDirs == dirsPerDir^maxDepth.
	dirsPerDir := math.Pow(2, math.Log2(numDirs)/float64(maxDepth))

	return Configuration{
			RootDir:      rootDir,
			Files:        files,
			FilesExact:   filesExact,
			Bytes:        bytes,
			BytesExact:   bytesExact,
			FillByte:     fillByte,
			DirsPerDir:   dirsPerDir,
			BytesPerFile: bytesPerFile,
			MaxDepth:     maxDepth,
			Seed:         derivedSeed,
		}, PlanSummary{
			InformationalDirsPerDir:   uint64(math.Round(dirsPerDir)),
			InformationalTotalDirs:    uint64(math.Round(numDirs)),
			InformationalBytesPerFile: uint64(math.Round(bytesPerFile)),
		}, nil
}

// deriveSeed hashes (files, ratio, maxDepth, seed) with blake3 so that
// varying any shape parameter — not just the user-supplied seed — changes
// the generated tree (spec §3, §4.8).
func deriveSeed(files, ratio uint64, maxDepth uint32, seed uint64) uint64 {
	var buf [32]byte
	binary.BigEndian.PutUint64(buf[0:8], files)
	binary.BigEndian.PutUint64(buf[8:16], ratio)
	binary.BigEndian.PutUint64(buf[16:24], uint64(maxDepth))
	binary.BigEndian.PutUint64(buf[24:32], seed)

	h := blake3.New(32, nil)
	h.Write(buf[:])
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
