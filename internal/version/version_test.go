package version

import "testing"

func TestString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3"
	if got, want := String(), "v1.2.3 (commit unknown, built unknown)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if v, _, _ := Info(); v != "v1.2.3" {
		t.Errorf("Info() version = %q", v)
	}
}
