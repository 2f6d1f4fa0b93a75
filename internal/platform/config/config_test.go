package config

import (
	"testing"
	"time"
)

func TestPrefixComposition(t *testing.T) {
	c := New().Prefix("CORE_API_").Prefix("SUB_")
	t.Setenv("CORE_API_SUB_NAME", "volume")

	if got := c.MustString("NAME"); got != "volume" {
		t.Fatalf("MustString = %q", got)
	}
}

func TestMayString(t *testing.T) {
	c := New().Prefix("TEST_CFG_")

	if got := c.MayString("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("MayString missing = %q", got)
	}

	t.Setenv("TEST_CFG_PRESENT", "  value  ")
	if got := c.MayString("PRESENT", "fallback"); got != "value" {
		t.Fatalf("MayString present = %q", got)
	}
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("TEST_CFG_")

	if got := c.MayInt("MISSING", 4); got != 4 {
		t.Fatalf("MayInt missing = %d", got)
	}

	t.Setenv("TEST_CFG_CONNS", "12")
	if got := c.MayInt("CONNS", 4); got != 12 {
		t.Fatalf("MayInt present = %d", got)
	}

	// invalid falls back to default
	t.Setenv("TEST_CFG_BAD", "twelve")
	if got := c.MayInt("BAD", 4); got != 4 {
		t.Fatalf("MayInt invalid = %d", got)
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("TEST_CFG_")

	if got := c.MayBool("MISSING", true); !got {
		t.Fatalf("MayBool missing should use default")
	}

	t.Setenv("TEST_CFG_FLAG", "false")
	if got := c.MayBool("FLAG", true); got {
		t.Fatalf("MayBool present should parse false")
	}

	t.Setenv("TEST_CFG_BADFLAG", "yep")
	if got := c.MayBool("BADFLAG", true); !got {
		t.Fatalf("MayBool invalid should use default")
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("TEST_CFG_")

	if got := c.MayDuration("MISSING", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration missing = %v", got)
	}

	t.Setenv("TEST_CFG_TIMEOUT", "250ms")
	if got := c.MayDuration("TIMEOUT", 5*time.Second); got != 250*time.Millisecond {
		t.Fatalf("MayDuration present = %v", got)
	}
}

func TestMustPort(t *testing.T) {
	c := New().Prefix("TEST_CFG_")
	t.Setenv("TEST_CFG_PORT", "8080")

	if got := c.MustPort("PORT"); got != ":8080" {
		t.Fatalf("MustPort = %q", got)
	}
}
