// Package utmp maintains the classic Linux login accounting records:
// the active-session table (utmp), the login history (wtmp), and the
// failed-login history (btmp). All three share one 384-byte record
// layout, stored little-endian.
package utmp

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
	nameSize = 32
	hostSize = 256

	recordSize = 384
)

// Record types from utmp(5).
const (
	Empty        int16 = 0
	LoginProcess int16 = 6
	UserProcess  int16 = 7
	DeadProcess  int16 = 8
)

var order = binary.LittleEndian

// Record mirrors struct utmp from bits/utmp.h on 64-bit Linux, including
// its alignment padding.
type Record struct {
	Type            int16
	_               [2]byte
	Pid             int32
	Line            [lineSize]byte
	ID              [4]byte
	User            [nameSize]byte
	Host            [hostSize]byte
	ExitTermination int16
	ExitStatus      int16
	Session         int32
	TvSec           int32
	TvUsec          int32
	AddrV6          [4]int32
	_               [20]byte
}

// New builds a record of the given type for a session on line.
func New(typ int16, line, user, host string, pid int32, at time.Time) *Record {
	r := &Record{Type: typ, Pid: pid}
	setChars(r.Line[:], line)
	setChars(r.User[:], user)
	setChars(r.Host[:], host)
	id := line
	if len(id) > 4 {
		id = id[len(id)-4:]
	}
	setChars(r.ID[:], id)
	r.TvSec = int32(at.Unix())
	r.TvUsec = int32(at.Nanosecond() / 1000)
	return r
}

func (r *Record) LineString() string { return chars(r.Line[:]) }
func (r *Record) UserString() string { return chars(r.User[:]) }
func (r *Record) HostString() string { return chars(r.Host[:]) }

// WriteLogin records a session start: the utmp slot for the line is
// replaced (or appended) and the record is added to the wtmp history.
func WriteLogin(r *Record) error {
	up, err := hostfs.Path(hostfs.VarRunUtmpRel)
	if err != nil {
		return err
	}
	if err := updateSlot(up, r); err != nil {
		return err
	}
	wp, err := hostfs.Path(hostfs.VarLogWtmpRel)
	if err != nil {
		return err
	}
	return hostfs.Append(wp, encode(r), 0o664)
}

// WriteFailure appends the attempt to the btmp history.
func WriteFailure(r *Record) error {
	bp, err := hostfs.Path(hostfs.VarLogBtmpRel)
	if err != nil {
		return err
	}
	return hostfs.Append(bp, encode(r), 0o600)
}

// ReadAll returns every record in a utmp-format file.
func ReadAll(path string) ([]Record, error) {
	b, err := hostfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []Record
	rd := bytes.NewReader(b)
	for {
		var r Record
		err := binary.Read(rd, order, &r)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
}

// updateSlot rewrites the record occupying this line's slot, appending
// when the line has none yet. The file keeps its inode.
func updateSlot(path string, r *Record) error {
	return hostfs.Update(path, 0o664, func(f *os.File) error {
		var offset int64 = -1
		buf := make([]byte, recordSize)
		for at := int64(0); ; at += recordSize {
			if _, err := io.ReadFull(f, buf); err != nil {
				break
			}
			var cur Record
			if err := binary.Read(bytes.NewReader(buf), order, &cur); err != nil {
				return err
			}
			if cur.Line == r.Line {
				offset = at
				break
			}
		}
		if offset < 0 {
			_, err := f.Seek(0, io.SeekEnd)
			if err != nil {
				return err
			}
			_, err = f.Write(encode(r))
			return err
		}
		_, err := f.WriteAt(encode(r), offset)
		return err
	})
}

func encode(r *Record) []byte {
	var buf bytes.Buffer
	// Writing a fixed-size struct cannot fail.
	_ = binary.Write(&buf, order, r)
	return buf.Bytes()
}

func setChars(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}

func chars(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
