package dgcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jdefrancesco/dirgen/internal/dgnames"
	"github.com/jdefrancesco/dirgen/internal/dgpath"
	"github.com/jdefrancesco/dirgen/internal/dgrand"
)

func TestRunTaskCreatesDirsThenFiles(t *testing.T) {
	dir := t.TempDir()
	p := dgpath.New(dir)

	outcome, err := RunTask(TaskParams{
		Path:     p,
		NumDirs:  2,
		NumFiles: 3,
		Content:  NoneContent{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.DirsGenerated != 2 || outcome.FilesGenerated != 3 {
		t.Fatalf("unexpected outcome: %+v", outcome)
	}

	for i := 0; i < 2; i++ {
		info, err := os.Stat(filepath.Join(dir, dirName(i)))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected subdirectory %d: %v", i, err)
		}
	}
	for i := 0; i < 3; i++ {
		info, err := os.Stat(filepath.Join(dir, fileName(i)))
		if err != nil || info.IsDir() {
			t.Fatalf("expected file %d: %v", i, err)
		}
	}
}

func TestRunTaskFileOffset(t *testing.T) {
	dir := t.TempDir()
	p := dgpath.New(dir)

	_, err := RunTask(TaskParams{Path: p, NumFiles: 2, FileOffset: 10, Content: NoneContent{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, fileName(10))); err != nil {
		t.Fatalf("expected offset file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, fileName(11))); err != nil {
		t.Fatalf("expected offset file: %v", err)
	}
}

func TestRunTaskRecoversMissingParent(t *testing.T) {
	root := t.TempDir()
	missing := filepath.Join(root, "not-yet-created")
	p := dgpath.New(missing)

	outcome, err := RunTask(TaskParams{Path: p, NumFiles: 1, Content: NoneContent{}})
	if err != nil {
		t.Fatalf("expected missing parent to be recovered: %v", err)
	}
	if outcome.FilesGenerated != 1 {
		t.Fatalf("expected 1 file generated, got %d", outcome.FilesGenerated)
	}
	if _, err := os.Stat(filepath.Join(missing, fileName(0))); err != nil {
		t.Fatalf("expected file to exist after parent recovery: %v", err)
	}
}

func TestRunTaskReturnsByteCounts(t *testing.T) {
	dir := t.TempDir()
	p := dgpath.New(dir)

	outcome, err := RunTask(TaskParams{
		Path:     p,
		NumFiles: 2,
		Content:  &PreDefined{ByteCounts: []uint64{5, 7}, Rng: dgrand.New(1)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.BytesGenerated != 12 {
		t.Fatalf("expected 12 bytes, got %d", outcome.BytesGenerated)
	}
	if len(outcome.ReturnByteCounts) != 2 {
		t.Fatalf("expected byte counts returned, got %v", outcome.ReturnByteCounts)
	}
}

func dirName(i int) string  { return dgnames.DirName(i) }
func fileName(i int) string { return dgnames.FileName(i) }
