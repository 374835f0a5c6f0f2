package dgconfig

import "testing"

func TestPlanZeroFilesFails(t *testing.T) {
	if _, _, err := Plan("/root", 0, false, 0, false, nil, 1, 5, 0); err == nil {
		t.Fatal("expected error for zero files")
	}
}

func TestPlanRatioGreaterThanFilesFails(t *testing.T) {
	if _, _, err := Plan("/root", 10, false, 0, false, nil, 20, 3, 0); err == nil {
		t.Fatal("expected error when ratio exceeds files")
	}
}

func TestPlanMaxDepthZeroCollapsesToRoot(t *testing.T) {
	cfg, summary, err := Plan("/root", 100, false, 0, false, nil, 10, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DirsPerDir != 0 {
		t.Fatalf("expected DirsPerDir 0, got %f", cfg.DirsPerDir)
	}
	if summary.InformationalTotalDirs != 1 {
		t.Fatalf("expected 1 informational dir, got %d", summary.InformationalTotalDirs)
	}
	if cfg.Files != 100 {
		t.Fatalf("expected all files targeted at root, got %d", cfg.Files)
	}
}

func TestPlanRatioEqualsFilesCollapsesFanoutToOne(t *testing.T) {
	cfg, _, err := Plan("/root", 1000, false, 0, false, nil, 1000, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cfg.DirsPerDir - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected dirs_per_dir ~= 1, got %f", cfg.DirsPerDir)
	}
}

func TestPlanDirsPerDirMatchesRatioDerivation(t *testing.T) {
	cfg, summary, err := Plan("/root", 1_000_000, false, 0, false, nil, 100, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// numDirs == files/ratio == 10000, and dirsPerDir^3 should reproduce it.
	cubed := cfg.DirsPerDir * cfg.DirsPerDir * cfg.DirsPerDir
	if diff := cubed - 10000; diff > 1 || diff < -1 {
		t.Fatalf("expected dirsPerDir^3 ~= 10000, got %f", cubed)
	}
	if summary.InformationalTotalDirs != 10000 {
		t.Fatalf("expected 10000 informational dirs, got %d", summary.InformationalTotalDirs)
	}
}

func TestDerivedSeedVariesWithShapeParameters(t *testing.T) {
	cfgA, _, _ := Plan("/root", 1000, false, 0, false, nil, 10, 3, 42)
	cfgB, _, _ := Plan("/root", 1000, false, 0, false, nil, 10, 4, 42)
	if cfgA.Seed == cfgB.Seed {
		t.Fatal("expected derived seed to differ when max depth changes")
	}
}

func TestDerivedSeedDeterministic(t *testing.T) {
	cfgA, _, _ := Plan("/root", 1000, false, 500, true, nil, 10, 3, 7)
	cfgB, _, _ := Plan("/other-root", 1000, false, 500, true, nil, 10, 3, 7)
	if cfgA.Seed != cfgB.Seed {
		t.Fatal("expected same shape parameters to derive the same seed regardless of root path")
	}
}
