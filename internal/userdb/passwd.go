package userdb

import (
	"bytes"
	"strings"

	"github.com/legionus/slogin/internal/hostfs"
)

type PasswdFile struct {
	entries []*PasswdEntry
}

func LoadPasswd(path string) (*PasswdFile, error) {
	b, err := hostfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var f PasswdFile
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 7 {
			// Not a complete record; a login lookup can never match it.
			continue
		}
		uid, err := atoi(parts[2], "passwd.uid")
		if err != nil {
			return nil, err
		}
		gid, err := atoi(parts[3], "passwd.gid")
		if err != nil {
			return nil, err
		}
		e := PasswdEntry{
			Name:   parts[0],
			Passwd: parts[1],
			UID:    uid,
			GID:    gid,
			Gecos:  parts[4],
			Home:   parts[5],
			Shell:  parts[6],
		}
		f.entries = append(f.entries, &e)
	}
	return &f, nil
}

func (f *PasswdFile) Find(name string) *PasswdEntry {
	for _, e := range f.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}
