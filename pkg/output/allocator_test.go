package output

import (
	"fmt"
	"sync"
	"testing"
)

func TestAllocate(t *testing.T) {
	a := NewAllocator()
	got := []string{
		a.Allocate("Picture", "a.png"),
		a.Allocate("Picture", "a.png"),
		a.Allocate("Picture", "a.png"),
		a.Allocate("Audio", "a.png"),
	}
	want := []string{"a.png", "a_0.png", "a_1.png", "a.png"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Allocate #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAllocateSharedCounter(t *testing.T) {
	a := NewAllocator()
	a.Allocate("Prefab", "x.prefab")
	a.Allocate("Prefab", "y.prefab")
	if got := a.Allocate("Prefab", "x.prefab"); got != "x_0.prefab" {
		t.Errorf("got %q, want x_0.prefab", got)
	}
	// The counter is per directory, not per name.
	if got := a.Allocate("Prefab", "y.prefab"); got != "y_1.prefab" {
		t.Errorf("got %q, want y_1.prefab", got)
	}
}

func TestAllocateSkipsTaken(t *testing.T) {
	a := NewAllocator()
	a.Allocate("d", "a_0.png")
	a.Allocate("d", "a.png")
	if got := a.Allocate("d", "a.png"); got != "a_1.png" {
		t.Errorf("got %q, want a_1.png", got)
	}
	if got := a.Allocate("d", "a_0.png"); got != "a_0_2.png" {
		t.Errorf("got %q, want a_0_2.png", got)
	}
}

func TestAllocateSanitizes(t *testing.T) {
	a := NewAllocator()
	tests := []struct {
		in   string
		want string
	}{
		{"ui/button.png", "ui_button.png"},
		{".png", "unnamed.png"},
		{"", "unnamed"},
		{"..", "unnamed"},
	}
	for _, tt := range tests {
		if got := a.Allocate(tt.in, tt.in); got != tt.want {
			t.Errorf("Allocate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllocateConcurrent(t *testing.T) {
	a := NewAllocator()
	const n = 64
	names := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names[i] = a.Allocate("dir", "same.png")
		}()
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, name := range names {
		if seen[name] {
			t.Fatalf("duplicate name %q", name)
		}
		seen[name] = true
	}
	if !seen["same.png"] || !seen[fmt.Sprintf("same_%d.png", n-2)] {
		t.Errorf("unexpected name set: %v", names)
	}
}
