// Package lastlog reads and writes /var/log/lastlog, the per-uid table
// of most recent logins. Records are fixed 292-byte slots indexed by uid,
// so the file is sparse on systems with high uids.
package lastlog

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"

	"github.com/legionus/slogin/internal/hostfs"
)

const (
	lineSize = 32
	hostSize = 256

	recordSize = 4 + lineSize + hostSize
)

var order = binary.LittleEndian

type record struct {
	Time int32
	Line [lineSize]byte
	Host [hostSize]byte
}

// Entry is one account's last login.
type Entry struct {
	Time time.Time
	Line string
	Host string
}

// Read returns the last login for uid. ok is false when the account has
// never logged in or the table does not exist.
func Read(uid int) (Entry, bool, error) {
	p, err := hostfs.Path(hostfs.VarLogLastlogRel)
	if err != nil {
		return Entry{}, false, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	defer f.Close()

	buf := make([]byte, recordSize)
	if _, err := f.ReadAt(buf, int64(uid)*recordSize); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	var r record
	if err := binary.Read(bytes.NewReader(buf), order, &r); err != nil {
		return Entry{}, false, err
	}
	if r.Time == 0 {
		return Entry{}, false, nil
	}
	return Entry{
		Time: time.Unix(int64(r.Time), 0),
		Line: chars(r.Line[:]),
		Host: chars(r.Host[:]),
	}, true, nil
}

// Write records a login for uid.
func Write(uid int, e Entry) error {
	p, err := hostfs.Path(hostfs.VarLogLastlogRel)
	if err != nil {
		return err
	}
	var r record
	r.Time = int32(e.Time.Unix())
	copy(r.Line[:], e.Line)
	copy(r.Host[:], e.Host)

	var buf bytes.Buffer
	_ = binary.Write(&buf, order, &r)

	return hostfs.Update(p, 0o664, func(f *os.File) error {
		_, err := f.WriteAt(buf.Bytes(), int64(uid)*recordSize)
		return err
	})
}

func chars(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
