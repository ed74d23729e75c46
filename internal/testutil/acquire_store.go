package testutil

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zourit/zourit/store"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// MigrationsDir returns the absolute path of the repository's shipped
// migration scripts, so tests run against the real schema.
func MigrationsDir(t TestLog) string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("unable to locate the migrations directory")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// AcquireStore opens a throwaway sqlite store in a temp directory with the
// full schema applied.
func AcquireStore(ctx context.Context, t TestLog) (*store.Store, func()) {
	dir, err := ioutil.TempDir("", "zourit-tests")
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(ctx, filepath.Join(dir, "zourit.db"))
	if err != nil {
		t.Fatal(err)
	}
	err = st.ApplyMigrations(ctx, MigrationsDir(t))
	if err != nil {
		t.Fatal(err)
	}
	return st, func() {
		err := st.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

// AcquireBareStore opens a throwaway store without applying any
// migrations, for tests that drive the migration engine themselves.
func AcquireBareStore(ctx context.Context, t TestLog) (*store.Store, string, func()) {
	dir, err := ioutil.TempDir("", "zourit-tests")
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(ctx, filepath.Join(dir, "zourit.db"))
	if err != nil {
		t.Fatal(err)
	}
	return st, dir, func() {
		err := st.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
