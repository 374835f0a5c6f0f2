package dglog

import "testing"

func TestParseLevelDefaultsToInfo(t *testing.T) {
	level, err := parseLevel("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level.String() != "info" {
		t.Fatalf("expected info, got %s", level.String())
	}
}

func TestParseLevelAcceptsKnownLevel(t *testing.T) {
	level, err := parseLevel("DEBUG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if level.String() != "debug" {
		t.Fatalf("expected debug, got %s", level.String())
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := parseLevel("not-a-level"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSetLevelBeforeInitialize(t *testing.T) {
	Log = nil
	if err := SetLevel("debug"); err == nil {
		t.Fatal("expected error when logger not initialized")
	}
}

func TestInitializeAndSetLevel(t *testing.T) {
	Initialize("")
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Log.GetLevel().String() != "warning" {
		t.Fatalf("expected warning, got %s", Log.GetLevel().String())
	}
}
