package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GehirnInc/crypt/sha512_crypt"

	"github.com/legionus/slogin/internal/hostfs"
	"github.com/legionus/slogin/internal/userdb"
)

func newShadowDB(t *testing.T, shadowBody string) *userdb.DB {
	t.Helper()
	dir := t.TempDir()
	etc := filepath.Join(dir, "etc")
	if err := os.MkdirAll(etc, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"passwd": "alice:x:1000:1000::/home/alice:/bin/sh\nbob:x:1001:1001::/home/bob:/bin/sh\n",
		"group":  "alice:x:1000:\nbob:x:1001:\n",
		"shadow": shadowBody,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(etc, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := hostfs.Root
	hostfs.Root = dir
	t.Cleanup(func() { hostfs.Root = old })

	db, err := userdb.Load()
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestShadowAuthenticate(t *testing.T) {
	hash, err := sha512_crypt.New().Generate([]byte("open sesame"), nil)
	if err != nil {
		t.Fatal(err)
	}
	db := newShadowDB(t, "alice:"+hash+":19000:0:99999:7:::\nbob:!:19000:0:99999:7:::\n")

	conv := &Conversation{Username: "alice", Password: []byte("open sesame")}
	tx, err := startShadow("slogin", "alice", conv, db)
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Authenticate(); err != nil {
		t.Errorf("good password rejected: %v", err)
	}
	if err := tx.AcctMgmt(); err != nil {
		t.Errorf("account stage: %v", err)
	}
	if u, _ := tx.User(); u != "alice" {
		t.Errorf("User = %q", u)
	}
}

func TestShadowAuthenticateWrongPassword(t *testing.T) {
	hash, err := sha512_crypt.New().Generate([]byte("right"), nil)
	if err != nil {
		t.Fatal(err)
	}
	db := newShadowDB(t, "alice:"+hash+":19000:0:99999:7:::\n")

	conv := &Conversation{Username: "alice", Password: []byte("wrong")}
	tx, _ := startShadow("slogin", "alice", conv, db)
	if err := tx.Authenticate(); !errors.Is(err, errBadPassword) {
		t.Errorf("err = %v", err)
	}
}

func TestShadowAuthenticateLocked(t *testing.T) {
	db := newShadowDB(t, "bob:!$6$salt$hash:19000:0:99999:7:::\n")

	conv := &Conversation{Username: "bob", Password: []byte("whatever")}
	tx, _ := startShadow("slogin", "bob", conv, db)
	if err := tx.Authenticate(); !errors.Is(err, errLocked) {
		t.Errorf("err = %v", err)
	}
}

func TestShadowAuthenticateMissingUserLooksLikeBadPassword(t *testing.T) {
	db := newShadowDB(t, "alice:$6$x$y:19000:0:99999:7:::\n")

	conv := &Conversation{Username: "ghost", Password: []byte("pw")}
	tx, _ := startShadow("slogin", "ghost", conv, db)
	if err := tx.Authenticate(); !errors.Is(err, errBadPassword) {
		t.Errorf("err = %v", err)
	}
}

func TestShadowPromptsForMissingUsername(t *testing.T) {
	hash, err := sha512_crypt.New().Generate([]byte("pw"), nil)
	if err != nil {
		t.Fatal(err)
	}
	db := newShadowDB(t, "alice:"+hash+":19000:0:99999:7:::\n")

	conv := &Conversation{Username: "alice", Password: []byte("pw")}
	tx, _ := startShadow("slogin", "", conv, db)
	if err := tx.Authenticate(); err != nil {
		t.Errorf("err = %v", err)
	}
	if u, _ := tx.User(); u != "alice" {
		t.Errorf("User after prompt = %q", u)
	}
}

func TestShadowAccountExpiry(t *testing.T) {
	hash, err := sha512_crypt.New().Generate([]byte("pw"), nil)
	if err != nil {
		t.Fatal(err)
	}
	db := newShadowDB(t, "alice:"+hash+":19000:0:99999:7::100:\n")

	conv := &Conversation{Username: "alice", Password: []byte("pw")}
	txi, _ := startShadow("slogin", "alice", conv, db)
	tx := txi.(*shadowTransaction)
	tx.nowDays = func() int64 { return 200 }
	if err := tx.AcctMgmt(); err == nil {
		t.Error("expired account passed the account stage")
	}
	tx.nowDays = func() int64 { return 50 }
	if err := tx.AcctMgmt(); err != nil {
		t.Errorf("unexpired account rejected: %v", err)
	}
}
