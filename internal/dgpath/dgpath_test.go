package dgpath

import "testing"

func TestPushPop(t *testing.T) {
	p := New("/root")
	guard := p.Push("a")
	if p.String() != "/root/a" {
		t.Fatalf("got %q", p.String())
	}
	guard.Pop()
	if p.String() != "/root" {
		t.Fatalf("got %q after pop", p.String())
	}
}

func TestNestedPushPop(t *testing.T) {
	p := New("/root")
	g1 := p.Push("a")
	g2 := p.Push("b")
	if p.String() != "/root/a/b" {
		t.Fatalf("got %q", p.String())
	}
	g2.Pop()
	if p.String() != "/root/a" {
		t.Fatalf("got %q", p.String())
	}
	g1.Pop()
	if p.String() != "/root" {
		t.Fatalf("got %q", p.String())
	}
}

func TestSetFileName(t *testing.T) {
	p := New("/root")
	p.Push("first")
	p.SetFileName("second")
	if p.String() != "/root/second" {
		t.Fatalf("got %q", p.String())
	}
}

func TestReset(t *testing.T) {
	p := New("/root")
	p.Push("a")
	p.Push("b")
	p.Reset("/root")
	if p.String() != "/root" {
		t.Fatalf("got %q after reset", p.String())
	}
	p.Push("c")
	if p.String() != "/root/c" {
		t.Fatalf("got %q", p.String())
	}
}

func TestCStringView(t *testing.T) {
	p := New("/root")
	p.Push("file")
	var seen string
	p.CStringView(func(cstr []byte) {
		if cstr[len(cstr)-1] != 0 {
			t.Fatal("expected NUL terminator")
		}
		seen = string(cstr[:len(cstr)-1])
	})
	if seen != "/root/file" {
		t.Fatalf("got %q", seen)
	}
	if p.String() != "/root/file" {
		t.Fatalf("buffer left in unexpected state: %q", p.String())
	}
}
