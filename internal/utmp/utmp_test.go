package utmp

import (
	"bytes"
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
	for _, sub := range []string{"var/run", "var/log"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	old := hostfs.Root
	hostfs.Root = dir
	t.Cleanup(func() { hostfs.Root = old })
	return dir
}

func TestRecordSize(t *testing.T) {
	if n := binary.Size(Record{}); n != recordSize {
		t.Fatalf("binary size = %d, want %d", n, recordSize)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	at := time.Unix(1700000000, 123456000)
	r := New(UserProcess, "tty1", "alice", "vault13", 4321, at)

	var decoded Record
	if err := binary.Read(bytes.NewReader(encode(r)), order, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Type != UserProcess || decoded.Pid != 4321 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.LineString() != "tty1" || decoded.UserString() != "alice" || decoded.HostString() != "vault13" {
		t.Errorf("strings = %q %q %q",
			decoded.LineString(), decoded.UserString(), decoded.HostString())
	}
	if decoded.TvSec != 1700000000 || decoded.TvUsec != 123456 {
		t.Errorf("time = %d.%06d", decoded.TvSec, decoded.TvUsec)
	}
	if string(decoded.ID[:]) != "tty1" {
		t.Errorf("ID = %q", decoded.ID)
	}
}

func TestIDIsLineSuffix(t *testing.T) {
	r := New(UserProcess, "pts/12", "bob", "", 1, time.Unix(0, 0))
	if string(r.ID[:]) != "s/12" {
		t.Errorf("ID = %q", r.ID)
	}
}

func TestWriteLoginReplacesSlot(t *testing.T) {
	withRoot(t)
	at := time.Unix(1700000000, 0)

	if err := WriteLogin(New(UserProcess, "tty1", "alice", "", 100, at)); err != nil {
		t.Fatal(err)
	}
	if err := WriteLogin(New(UserProcess, "tty2", "bob", "", 200, at)); err != nil {
		t.Fatal(err)
	}
	// alice logs out, carol takes the same line.
	if err := WriteLogin(New(UserProcess, "tty1", "carol", "", 300, at)); err != nil {
		t.Fatal(err)
	}

	up, _ := hostfs.Path(hostfs.VarRunUtmpRel)
	recs, err := ReadAll(up)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("utmp has %d records, want 2", len(recs))
	}
	if recs[0].UserString() != "carol" || recs[1].UserString() != "bob" {
		t.Errorf("slots = %q, %q", recs[0].UserString(), recs[1].UserString())
	}

	// History keeps all three.
	wp, _ := hostfs.Path(hostfs.VarLogWtmpRel)
	hist, err := ReadAll(wp)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 3 {
		t.Errorf("wtmp has %d records, want 3", len(hist))
	}
}

func TestWriteFailureAppends(t *testing.T) {
	withRoot(t)
	at := time.Unix(1700000000, 0)

	for _, user := range []string{"root", "root", "mallory"} {
		if err := WriteFailure(New(UserProcess, "tty9", user, "", 0, at)); err != nil {
			t.Fatal(err)
		}
	}
	bp, _ := hostfs.Path(hostfs.VarLogBtmpRel)
	recs, err := ReadAll(bp)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[2].UserString() != "mallory" {
		t.Errorf("btmp = %d records, last %q", len(recs), recs[len(recs)-1].UserString())
	}

	st, err := os.Stat(bp)
	if err != nil {
		t.Fatal(err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Errorf("btmp mode = %o", st.Mode().Perm())
	}
}
