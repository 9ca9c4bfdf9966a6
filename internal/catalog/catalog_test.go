package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestStore_Lookups(t *testing.T) {
	dir := t.TempDir()
	bucketsPath := writeFile(t, dir, "buckets.json",
		`[{"id":1,"name":"Green Growth","risk":3,"return":6.2,"esg":true},
		  {"id":2,"name":"Balanced","risk":2,"return":4.1,"esg":false}]`)
	profilesPath := writeFile(t, dir, "profiles.json",
		`[{"id":"p-1","profile":{"name":"Alex Morgan","age":42}}]`)
	portfoliosPath := writeFile(t, dir, "portfolios.json",
		`[{"id":"pf-1","holdings":["AAPL","MSFT"]}]`)

	s := NewStore(bucketsPath, profilesPath, portfoliosPath)

	if len(s.Buckets()) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(s.Buckets()))
	}

	b, ok := s.BucketByID(1)
	if !ok || b.Name != "Green Growth" || !b.Esg {
		t.Errorf("unexpected bucket: %+v ok=%v", b, ok)
	}
	if _, ok := s.BucketByID(99); ok {
		t.Error("expected miss for unknown bucket id")
	}

	p, ok := s.ProfileByName("Alex Morgan")
	if !ok || p["id"] != "p-1" {
		t.Errorf("unexpected profile: %+v ok=%v", p, ok)
	}
	if _, ok := s.ProfileByName("Nobody"); ok {
		t.Error("expected miss for unknown profile name")
	}

	pf, ok := s.PortfolioByID("pf-1")
	if !ok || pf["id"] != "pf-1" {
		t.Errorf("unexpected portfolio: %+v ok=%v", pf, ok)
	}
}

func TestStore_MissingFilesYieldEmptySets(t *testing.T) {
	s := NewStore("does/not/exist.json", "also/missing.json", "nope.json")

	if len(s.Buckets()) != 0 {
		t.Errorf("expected no buckets, got %d", len(s.Buckets()))
	}
	if _, ok := s.ProfileByName("anyone"); ok {
		t.Error("expected no profiles")
	}
}

func TestStore_MalformedFileYieldsEmptySet(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "buckets.json", `{"not":"an array"`)

	s := NewStore(bad, "missing.json", "missing.json")
	if len(s.Buckets()) != 0 {
		t.Errorf("expected no buckets from malformed file, got %d", len(s.Buckets()))
	}
}
