package userdb

import (
	"github.com/legionus/slogin/internal/hostfs"
)

// DB bundles the account databases a login needs. passwd and group are
// loaded up front; shadow only on first use, since it is root-readable
// and only the crypt verifier looks at it.
type DB struct {
	passwd *PasswdFile
	group  *GroupFile
	shadow *ShadowFile
}

func Load() (*DB, error) {
	pp, err := hostfs.Path(hostfs.EtcPasswdRel)
	if err != nil {
		return nil, err
	}
	gp, err := hostfs.Path(hostfs.EtcGroupRel)
	if err != nil {
		return nil, err
	}
	passwd, err := LoadPasswd(pp)
	if err != nil {
		return nil, err
	}
	group, err := LoadGroup(gp)
	if err != nil {
		return nil, err
	}
	return &DB{passwd: passwd, group: group}, nil
}

// User returns the account record for name, or nil if there is none.
func (db *DB) User(name string) *PasswdEntry {
	return db.passwd.Find(name)
}

// Groups returns the initgroups set for the account.
func (db *DB) Groups(e *PasswdEntry) []int {
	return db.group.MemberGIDs(e.Name, e.GID)
}

// GroupByName resolves a group name to its entry, or nil.
func (db *DB) GroupByName(name string) *GroupEntry {
	return db.group.Find(name)
}

// Shadow returns the shadow record for name, or nil. The shadow file is
// read on first call.
func (db *DB) Shadow(name string) (*ShadowEntry, error) {
	if db.shadow == nil {
		sp, err := hostfs.Path(hostfs.EtcShadowRel)
		if err != nil {
			return nil, err
		}
		sf, err := LoadShadow(sp)
		if err != nil {
			return nil, err
		}
		db.shadow = sf
	}
	return db.shadow.Find(name), nil
}
