package registry

import (
	"testing"

	"opshell/internal/domain"
)

func TestBuildNavigation_PreservesRegistryOrder(t *testing.T) {
	r := Default()

	// enabled set supplied in reverse order, with a duplicate
	nav := r.BuildNavigation([]string{"ventas", "inventario", "ventas"})
	if len(nav) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(nav), nav)
	}
	if nav[0].Label != "Inventario" || nav[1].Label != "Ventas" {
		t.Fatalf("expected [Inventario Ventas], got [%s %s]", nav[0].Label, nav[1].Label)
	}
	for _, item := range nav {
		if item.Path == "" || item.Icon == "" {
			t.Fatalf("nav item missing path or icon: %+v", item)
		}
	}
}

func TestBuildNavigation_EmptySet(t *testing.T) {
	r := Default()
	if nav := r.BuildNavigation(nil); len(nav) != 0 {
		t.Fatalf("expected empty navigation, got %v", nav)
	}
}

func TestBuildNavigation_FullSetMatchesCatalog(t *testing.T) {
	r := Default()
	nav := r.BuildNavigation(r.Keys())
	all := r.All()
	if len(nav) != len(all) {
		t.Fatalf("expected %d items, got %d", len(all), len(nav))
	}
	for i := range nav {
		if nav[i].Label != all[i].Label || nav[i].Path != all[i].Path {
			t.Fatalf("item %d disagrees with catalog: %+v vs %+v", i, nav[i], all[i])
		}
	}
}

func TestBuildNavigation_IgnoresUnknownKeys(t *testing.T) {
	r := Default()
	base := r.BuildNavigation([]string{"inventario", "fotos"})
	withBogus := r.BuildNavigation([]string{"inventario", "bogus", "fotos"})
	if len(base) != len(withBogus) {
		t.Fatalf("unknown key changed the result: %v vs %v", base, withBogus)
	}
	for i := range base {
		if base[i] != withBogus[i] {
			t.Fatalf("item %d differs: %+v vs %+v", i, base[i], withBogus[i])
		}
	}
}

func TestFilterEnabled_SubsetLength(t *testing.T) {
	r := Default()
	cases := [][]string{
		{},
		{"inventario"},
		{"chatbot", "analitica", "costos"},
		{"inventario", "nope", "ventas", "nope2"},
	}
	for _, enabled := range cases {
		got := r.FilterEnabled(enabled)
		want := 0
		for _, k := range enabled {
			if r.Has(k) {
				want++
			}
		}
		if len(got) != want {
			t.Fatalf("enabled=%v: expected %d definitions, got %d", enabled, want, len(got))
		}
	}
}

func TestFirstEnabledPath(t *testing.T) {
	r := Default()
	if p := r.FirstEnabledPath([]string{"fotos", "ventas"}); p != "/ventas" {
		t.Fatalf("expected /ventas (first in registry order), got %s", p)
	}
	if p := r.FirstEnabledPath(nil); p != FallbackPath {
		t.Fatalf("expected fallback %s, got %s", FallbackPath, p)
	}
	if p := r.FirstEnabledPath([]string{"bogus"}); p != FallbackPath {
		t.Fatalf("expected fallback for unknown-only set, got %s", p)
	}
}

func TestUnknownKeys(t *testing.T) {
	r := Default()
	unknown := r.UnknownKeys([]string{"inventario", "bogus", "ventas", "bogus", "zzz"})
	if len(unknown) != 2 || unknown[0] != "bogus" || unknown[1] != "zzz" {
		t.Fatalf("expected [bogus zzz], got %v", unknown)
	}
}

func TestNew_CopiesDefinitions(t *testing.T) {
	defs := []domain.ModuleDefinition{
		{Key: "a", Label: "A", Path: "/a", Icon: "x", Class: domain.ModuleCore},
	}
	r := New(defs)
	defs[0].Label = "mutated"
	if r.All()[0].Label != "A" {
		t.Fatal("registry shared caller's backing array")
	}
}
