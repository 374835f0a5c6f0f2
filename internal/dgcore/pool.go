package dgcore

import "github.com/jdefrancesco/dirgen/internal/dgpath"

// pathPool recycles PathBuf values returned by finished tasks. It is only
// ever touched by the coordinator goroutine, so it needs no locking (spec §3:
// "object pools ... are single-threaded, owned by the coordinator").
type pathPool struct {
	free []*dgpath.PathBuf
}

func newPathPool() *pathPool {
	return &pathPool{}
}

// GetCopy returns a pooled PathBuf holding a snapshot of src's current
// contents, for handing off to a task that will mutate its own copy
// concurrently with the coordinator continuing to walk src.
func (p *pathPool) GetCopy(src *dgpath.PathBuf) *dgpath.PathBuf {
	var dst *dgpath.PathBuf
	if len(p.free) == 0 {
		dst = dgpath.WithCapacity(src.Capacity())
	} else {
		dst = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
	}
	dst.CopyFrom(src)
	return dst
}

func (p *pathPool) Put(buf *dgpath.PathBuf) {
	if buf == nil {
		return
	}
	p.free = append(p.free, buf)
}

// byteCountsPool recycles the []uint64 slices backing exact-bytes-mode
// PreDefined content generators.
type byteCountsPool struct {
	free [][]uint64
}

func (p *byteCountsPool) Get() []uint64 {
	if len(p.free) == 0 {
		return nil
	}
	v := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	return v[:0]
}

func (p *byteCountsPool) Put(v []uint64) {
	if v == nil {
		return
	}
	p.free = append(p.free, v)
}
