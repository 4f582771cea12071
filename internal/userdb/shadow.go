package userdb

import (
	"bytes"
	"strings"

	"github.com/legionus/slogin/internal/hostfs"
)

type ShadowFile struct {
	entries []*ShadowEntry
}

func LoadShadow(path string) (*ShadowFile, error) {
	b, err := hostfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var f ShadowFile
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 2 {
			continue
		}
		for len(parts) < 9 {
			parts = append(parts, "")
		}
		e := ShadowEntry{
			Name:       parts[0],
			Hash:       parts[1],
			LastChange: parts[2],
			Min:        parts[3],
			Max:        parts[4],
			Warn:       parts[5],
			Inactive:   parts[6],
			Expire:     parts[7],
			Reserved:   parts[8],
		}
		f.entries = append(f.entries, &e)
	}
	return &f, nil
}

func (f *ShadowFile) Find(name string) *ShadowEntry {
	for _, e := range f.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}
