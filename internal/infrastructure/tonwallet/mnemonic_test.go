package tonwallet

import (
	"bytes"
	"strings"
	"testing"
)

func testMnemonic() string {
	return strings.TrimSpace(strings.Repeat("abandon ", 23) + "about")
}

func TestKeyFromMnemonicIsDeterministic(t *testing.T) {
	first, err := KeyFromMnemonic(testMnemonic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := KeyFromMnemonic(testMnemonic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatal("same phrase must derive the same key")
	}
}

func TestKeyFromMnemonicNormalizesCasingAndWhitespace(t *testing.T) {
	base, err := KeyFromMnemonic(testMnemonic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	messy, err := KeyFromMnemonic("  " + strings.ToUpper(testMnemonic()) + "\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(base, messy) {
		t.Fatal("casing and whitespace must not change the derived key")
	}
}

func TestKeyFromMnemonicRejectsWrongWordCount(t *testing.T) {
	_, err := KeyFromMnemonic("only three words")
	if err == nil {
		t.Fatal("expected an error for a short phrase")
	}
	if err.Code != CodeInvalidMnemonic {
		t.Fatalf("expected code %s, got %s", CodeInvalidMnemonic, err.Code)
	}
}

func TestDifferentPhrasesDeriveDifferentKeys(t *testing.T) {
	first, err := KeyFromMnemonic(testMnemonic())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other, err := KeyFromMnemonic(strings.TrimSpace(strings.Repeat("zebra ", 24)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bytes.Equal(first, other) {
		t.Fatal("different phrases must not collide")
	}
}
