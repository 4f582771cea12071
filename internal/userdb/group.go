package userdb

import (
	"bytes"
	"sort"
	"strings"

	"github.com/legionus/slogin/internal/hostfs"
)

type GroupFile struct {
	entries []*GroupEntry
}

func LoadGroup(path string) (*GroupFile, error) {
	b, err := hostfs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines, err := readLines(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	var f GroupFile
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		parts := parseColonLine(line)
		if len(parts) < 4 {
			continue
		}
		gid, err := atoi(parts[2], "group.gid")
		if err != nil {
			return nil, err
		}
		members := []string{}
		if parts[3] != "" {
			members = strings.Split(parts[3], ",")
		}
		e := GroupEntry{Name: parts[0], Passwd: parts[1], GID: gid, Members: members}
		f.entries = append(f.entries, &e)
	}
	return &f, nil
}

func (f *GroupFile) Find(name string) *GroupEntry {
	for _, e := range f.entries {
		if e.Name == name {
			return e
		}
	}
	return nil
}

func (f *GroupFile) FindByGID(gid int) *GroupEntry {
	for _, e := range f.entries {
		if e.GID == gid {
			return e
		}
	}
	return nil
}

// MemberGIDs returns primary plus the gid of every group listing user as
// a member, sorted and without duplicates. This is the initgroups set.
func (f *GroupFile) MemberGIDs(user string, primary int) []int {
	seen := map[int]bool{primary: true}
	gids := []int{primary}
	for _, g := range f.entries {
		if seen[g.GID] {
			continue
		}
		for _, m := range g.Members {
			if m == user {
				seen[g.GID] = true
				gids = append(gids, g.GID)
				break
			}
		}
	}
	sort.Ints(gids)
	return gids
}
