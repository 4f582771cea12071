package lastlog

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/legionus/slogin/internal/hostfs"
)

func withRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "var/log"), 0o755); err != nil {
		t.Fatal(err)
	}
	old := hostfs.Root
	hostfs.Root = dir
	t.Cleanup(func() { hostfs.Root = old })
	return dir
}

func TestRecordSize(t *testing.T) {
	if n := binary.Size(record{}); n != recordSize {
		t.Fatalf("record size = %d, want %d", n, recordSize)
	}
}

func TestReadMissingFile(t *testing.T) {
	withRoot(t)

	_, ok, err := Read(1000)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Fatal("Read reported an entry from a missing file")
	}
}

func TestRoundTrip(t *testing.T) {
	withRoot(t)

	at := time.Unix(1700000000, 0)
	if err := Write(1000, Entry{Time: at, Line: "tty1", Host: "front"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	e, ok, err := Read(1000)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatal("Read found no entry after Write")
	}
	if !e.Time.Equal(at) {
		t.Errorf("Time = %v, want %v", e.Time, at)
	}
	if e.Line != "tty1" {
		t.Errorf("Line = %q, want %q", e.Line, "tty1")
	}
	if e.Host != "front" {
		t.Errorf("Host = %q, want %q", e.Host, "front")
	}
}

func TestSparseTable(t *testing.T) {
	dir := withRoot(t)

	if err := Write(5000, Entry{Time: time.Unix(1700000000, 0), Line: "pts/0"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	fi, err := os.Stat(filepath.Join(dir, "var/log/lastlog"))
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(5001) * recordSize; fi.Size() != want {
		t.Errorf("file size = %d, want %d", fi.Size(), want)
	}

	// Slots below the written uid exist but hold no login.
	_, ok, err := Read(1000)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Fatal("Read reported an entry from a zero slot")
	}

	// Slots past the end of the file read as never logged in.
	_, ok, err = Read(9000)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Fatal("Read reported an entry past the end of the table")
	}
}

func TestRewriteKeepsOtherSlots(t *testing.T) {
	withRoot(t)

	if err := Write(1000, Entry{Time: time.Unix(1700000000, 0), Line: "tty1"}); err != nil {
		t.Fatal(err)
	}
	if err := Write(1001, Entry{Time: time.Unix(1700000100, 0), Line: "tty2"}); err != nil {
		t.Fatal(err)
	}
	if err := Write(1000, Entry{Time: time.Unix(1700000200, 0), Line: "tty3", Host: "gate"}); err != nil {
		t.Fatal(err)
	}

	e, ok, err := Read(1000)
	if err != nil || !ok {
		t.Fatalf("Read(1000) = %v, %v", ok, err)
	}
	if e.Line != "tty3" || e.Host != "gate" {
		t.Errorf("slot 1000 = %q on %q, want rewrite", e.Host, e.Line)
	}

	e, ok, err = Read(1001)
	if err != nil || !ok {
		t.Fatalf("Read(1001) = %v, %v", ok, err)
	}
	if e.Line != "tty2" {
		t.Errorf("slot 1001 line = %q, want %q", e.Line, "tty2")
	}
}
