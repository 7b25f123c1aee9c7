package util

import (
	"strings"
	"testing"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line exceeds %d characters: %q", Wrap, line)
		}
	}
	if WrapString("") != "" {
		t.Errorf("empty text should stay empty")
	}
}

func TestParseClusterMembers(t *testing.T) {
	members, err := ParseClusterMembers("node-1=localhost:63001, node-2=localhost:63002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[HashString("node-1")] != "localhost:63001" {
		t.Errorf("node-1 has wrong address: %v", members)
	}

	for _, bad := range []string{"", "node-1", "node-1=", "=addr", "a=x,a=y"} {
		if _, err := ParseClusterMembers(bad); err == nil {
			t.Errorf("ParseClusterMembers(%q) should fail", bad)
		}
	}
}

func TestHashStringStable(t *testing.T) {
	if HashString("node-1") != HashString("node-1") {
		t.Errorf("hash must be deterministic")
	}
	if HashString("node-1") == HashString("node-2") {
		t.Errorf("different names should produce different ids")
	}
	if HashString("") == 0 {
		t.Errorf("hash must never be 0")
	}
}

func TestConnectors(t *testing.T) {
	for _, name := range []string{"tcp", "unix"} {
		s, err := GetServerConnector(name)
		if err != nil || s.GetName() != name {
			t.Errorf("server connector %s: %v", name, err)
		}
		c, err := GetClientConnector(name)
		if err != nil || c.GetName() != name {
			t.Errorf("client connector %s: %v", name, err)
		}
	}
	if _, err := GetServerConnector("http"); err == nil {
		t.Errorf("expected error for unknown transport")
	}
	if _, err := GetClientConnector("http"); err == nil {
		t.Errorf("expected error for unknown transport")
	}
}
