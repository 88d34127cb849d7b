package openapi

import (
	"bytes"
	"testing"
)

func TestSpecReturnsCopy(t *testing.T) {
	a := Spec()
	if !bytes.Contains(a, []byte("openapi:")) {
		t.Fatalf("spec missing openapi version marker")
	}
	if !bytes.Contains(a, []byte("/api/v1/guilds")) {
		t.Fatalf("spec missing guild path")
	}
	a[0] = 'X'
	b := Spec()
	if b[0] == 'X' {
		t.Fatalf("Spec must return a defensive copy")
	}
}
