package alias

import (
	"strings"
	"testing"
)

type memKV struct {
	m map[string]string
}

func newMemKV() *memKV { return &memKV{m: make(map[string]string)} }

func (kv *memKV) Get(key string) (string, bool, error) {
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *memKV) Set(key, value string) error {
	if _, ok := kv.m[key]; !ok {
		kv.m[key] = value
	}
	return nil
}

func TestGetOrCreateStable(t *testing.T) {
	svc := New(newMemKV())

	first, err := svc.GetOrCreate("Jane Doe|1980-01-01")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := svc.GetOrCreate("Jane Doe|1980-01-01")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if first != second {
		t.Errorf("alias not stable: %q vs %q", first, second)
	}
}

func TestGetOrCreateDistinctContexts(t *testing.T) {
	svc := New(newMemKV())

	a, err := svc.GetOrCreate("Jane Doe|1980-01-01")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	b, err := svc.GetOrCreate("John Doe|1975-06-15")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if a == b {
		t.Errorf("distinct contexts got the same alias %q", a)
	}
}

func TestGetOrCreateEmptyContext(t *testing.T) {
	svc := New(newMemKV())
	got, err := svc.GetOrCreate("   ")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if got != "SF-UNKNOWN" {
		t.Errorf("empty context alias = %q, want SF-UNKNOWN", got)
	}
}

func TestAliasFormat(t *testing.T) {
	svc := New(newMemKV())
	got, err := svc.GetOrCreate("Jane Doe|1980-01-01")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !strings.HasPrefix(got, "SF-") {
		t.Errorf("alias %q missing SF- prefix", got)
	}
	if got != strings.ToUpper(got) {
		t.Errorf("alias %q should be upper case", got)
	}
	if strings.Count(got, "-") != 2 {
		t.Errorf("alias %q should have two separators", got)
	}
}

func TestContextNotStoredInPlaintext(t *testing.T) {
	kv := newMemKV()
	svc := New(kv)
	const ctx = "Jane Doe|1980-01-01"
	if _, err := svc.GetOrCreate(ctx); err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	for k := range kv.m {
		if strings.Contains(k, "Jane") {
			t.Errorf("store key %q leaks patient context", k)
		}
	}
}
