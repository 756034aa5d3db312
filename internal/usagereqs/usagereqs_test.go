package usagereqs

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func k(namespace, name string) Key { return Key{Namespace: namespace, Name: name} }

func TestResolveLinkPathsDepthFirst(t *testing.T) {
	m := New()
	must(t, m.Add(Entry{Key: k("boost", "system"), LinkablePath: "libboost_system.a"}))
	must(t, m.Add(Entry{
		Key:          k("myapp", "core"),
		LinkablePath: "libcore.a",
		Uses:         []Key{k("boost", "system")},
	}))
	must(t, m.Add(Entry{
		Key:          k("myapp", "net"),
		LinkablePath: "libnet.a",
		Links:        []Key{k("myapp", "core")},
	}))

	got, err := m.ResolveLinkPaths(k("myapp", "net"))
	if err != nil {
		t.Fatalf("ResolveLinkPaths: %v", err)
	}
	want := []string{"libnet.a", "libcore.a", "libboost_system.a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveLinkPaths = %v, want %v", got, want)
	}
}

func TestResolveIncludePathsExcludesLinks(t *testing.T) {
	m := New()
	must(t, m.Add(Entry{Key: k("boost", "system"), IncludeDirs: []string{"/opt/boost/include"}}))
	must(t, m.Add(Entry{
		Key:         k("myapp", "core"),
		IncludeDirs: []string{"include/core"},
		Uses:        []Key{k("boost", "system")},
	}))
	must(t, m.Add(Entry{
		Key:         k("myapp", "net"),
		IncludeDirs: []string{"include/net"},
		Links:       []Key{k("myapp", "core")},
	}))

	got, err := m.ResolveIncludePaths(k("myapp", "net"))
	if err != nil {
		t.Fatalf("ResolveIncludePaths: %v", err)
	}
	want := []string{"include/net"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveIncludePaths = %v, want %v (links must not contribute include paths)", got, want)
	}
}

func TestResolveIncludePathsFollowsUsesTransitively(t *testing.T) {
	m := New()
	must(t, m.Add(Entry{Key: k("b", "leaf"), IncludeDirs: []string{"leaf/include"}}))
	must(t, m.Add(Entry{Key: k("b", "mid"), IncludeDirs: []string{"mid/include"}, Uses: []Key{k("b", "leaf")}}))
	must(t, m.Add(Entry{Key: k("b", "top"), IncludeDirs: []string{"top/include"}, Uses: []Key{k("b", "mid")}}))

	got, err := m.ResolveIncludePaths(k("b", "top"))
	if err != nil {
		t.Fatalf("ResolveIncludePaths: %v", err)
	}
	want := []string{"top/include", "mid/include", "leaf/include"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveIncludePaths = %v, want %v", got, want)
	}
}

func TestAddDuplicateKeyRejected(t *testing.T) {
	m := New()
	must(t, m.Add(Entry{Key: k("a", "one")}))
	if err := m.Add(Entry{Key: k("a", "one")}); err == nil {
		t.Fatal("expected error for duplicate key")
	}
}

func TestUnknownKeySuggestsClosest(t *testing.T) {
	m := New()
	must(t, m.Add(Entry{Key: k("boost", "system")}))

	_, err := m.ResolveLinkPaths(k("boost", "systme"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "system") {
		t.Errorf("error %q does not suggest the close-by known key", err.Error())
	}
}

func TestResolveLinkPathsDetectsCycle(t *testing.T) {
	m := New()
	must(t, m.Add(Entry{Key: k("a", "x"), Uses: []Key{k("a", "y")}}))
	must(t, m.Add(Entry{Key: k("a", "y"), Uses: []Key{k("a", "x")}}))

	_, err := m.ResolveLinkPaths(k("a", "x"))
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Errorf("error = %v, want *CycleError", err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
