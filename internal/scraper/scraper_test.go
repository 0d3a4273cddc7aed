package scraper

import (
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	s := New()
	if s.maxPages != 25 {
		t.Errorf("default maxPages = %d, want 25", s.maxPages)
	}
	if s.timeout != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", s.timeout)
	}
	if s.renderJS {
		t.Error("JS rendering should be off by default")
	}
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	s := New(WithMaxPages(0), WithTimeout(-time.Second))
	if s.maxPages != 25 || s.timeout != 30*time.Second {
		t.Error("non-positive option values should keep defaults")
	}
}

func TestForSiteOverrides(t *testing.T) {
	base := New(WithMaxPages(25))

	site := base.ForSite(5, true)
	if site.maxPages != 5 || !site.renderJS {
		t.Errorf("overrides not applied: maxPages=%d renderJS=%v", site.maxPages, site.renderJS)
	}

	// Zero values keep the defaults, and the base is untouched.
	same := base.ForSite(0, false)
	if same.maxPages != 25 || same.renderJS {
		t.Error("zero overrides should keep defaults")
	}
	if base.maxPages != 25 || base.renderJS {
		t.Error("ForSite mutated the shared scraper")
	}
}
