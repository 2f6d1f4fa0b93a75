package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []int{1, 2, 3}
	def := []int{9}
	got := IfEmpty(in, def)
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	def2 := []string{"x"}
	got2 := IfEmpty(empty, def2)
	if len(got2) != 1 || got2[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()

	if got := MustString("volume", "name"); got != "volume" {
		t.Fatalf("MustString = %q", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on whitespace input")
		}
	}()
	_ = MustString("   ", "name")
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"volume", "/volume"},
		{"/volume", "/volume"},
		{"/volume/", "/volume"},
		{"  /meta  ", "/meta"},
	}
	for _, c := range cases {
		if got := MustPrefix(c.in); got != c.want {
			t.Errorf("MustPrefix(%q)=%q want %q", c.in, got, c.want)
		}
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic on bare root")
		}
	}()
	_ = MustPrefix("/")
}

func TestEmptyToNilAndDeref(t *testing.T) {
	t.Parallel()

	if got := EmptyToNil("  "); got != "" {
		t.Fatalf("EmptyToNil whitespace = %q", got)
	}
	if got := EmptyToNil("x"); got != "x" {
		t.Fatalf("EmptyToNil kept = %q", got)
	}

	if got := Deref(nil); got != "" {
		t.Fatalf("Deref(nil) = %q", got)
	}
	s := "hi"
	if got := Deref(&s); got != "hi" {
		t.Fatalf("Deref = %q", got)
	}
}
