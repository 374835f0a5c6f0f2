package dgrand

import "testing"

func TestDeterministicStream(t *testing.T) {
	r1 := New(12345)
	r2 := New(12345)
	for i := 0; i < 100; i++ {
		a := r1.NextSeed()
		b := r2.NextSeed()
		if a != b {
			t.Fatalf("streams diverged at %d: %d != %d", i, a, b)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	r1 := New(1)
	r2 := New(2)
	same := true
	for i := 0; i < 20; i++ {
		if r1.NextSeed() != r2.NextSeed() {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different streams")
	}
}

func TestZeroSeedDoesNotDegenerate(t *testing.T) {
	r := New(0)
	seen := make(map[uint64]bool)
	for i := 0; i < 10; i++ {
		seen[r.NextSeed()] = true
	}
	if len(seen) < 5 {
		t.Fatalf("expected a varied stream from zero seed, got %d distinct values", len(seen))
	}
}

func TestSampleWithinBounds(t *testing.T) {
	rng := New(42)
	dist := Truncatable(100)
	for i := 0; i < 1000; i++ {
		v := dist.Sample(rng)
		if v > uint64(dist.Mean*2) {
			t.Fatalf("sample %d exceeds 2*mean bound %f", v, dist.Mean*2)
		}
	}
}

func TestSampleSmallMeanNeverNegative(t *testing.T) {
	rng := New(7)
	dist := Truncatable(0)
	for i := 0; i < 1000; i++ {
		_ = dist.Sample(rng) // uint64 return type already forbids negative; exercise for panics/NaN
	}
}

func TestDirsToGenRespectsGenDirsFalse(t *testing.T) {
	rng := New(1)
	dist := Truncatable(5)
	if got := DirsToGen(10, false, dist, rng); got != 0 {
		t.Fatalf("expected 0 when genDirs is false, got %d", got)
	}
}

func TestDirsToGenBumpsZeroWhenFilesPresent(t *testing.T) {
	rng := New(1)
	dist := Normal{Mean: 0, StdDev: 0.0001}
	got := DirsToGen(5, true, dist, rng)
	if got != 1 {
		t.Fatalf("expected bump to 1, got %d", got)
	}
}

func TestDirsToGenAllowsZeroWithoutFiles(t *testing.T) {
	rng := New(1)
	dist := Normal{Mean: 0, StdDev: 0.0001}
	got := DirsToGen(0, true, dist, rng)
	if got != 0 {
		t.Fatalf("expected 0 with no files and near-zero mean, got %d", got)
	}
}
