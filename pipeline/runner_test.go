package pipeline

import (
	"strings"
	"testing"
)

func TestTailBufferKeepsEverythingUnderCap(t *testing.T) {
	tail := newTailBuffer(16)
	tail.Write([]byte("abc"))
	tail.Write([]byte("def"))
	if got := tail.String(); got != "abcdef" {
		t.Fatalf("tail = %q", got)
	}
}

func TestTailBufferDropsOldestBytes(t *testing.T) {
	tail := newTailBuffer(8)
	tail.Write([]byte("0123456"))
	tail.Write([]byte("789"))
	if got := tail.String(); got != "23456789" {
		t.Fatalf("tail = %q, want last 8 bytes", got)
	}
}

func TestTailBufferOversizedWrite(t *testing.T) {
	tail := newTailBuffer(4)
	n, err := tail.Write([]byte(strings.Repeat("x", 100) + "tail"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 104 {
		t.Fatalf("Write() n = %d, want full length", n)
	}
	if got := tail.String(); got != "tail" {
		t.Fatalf("tail = %q", got)
	}
}
