package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/Garsondee/Field-Command/internal/game"
)

func sampleSnapshot(t *testing.T) game.Snapshot {
	t.Helper()
	ts := game.NewTestSim(
		game.WithFriendly("marine", 40, 40),
		game.WithFriendly("ghost", 56, 56),
		game.WithEnemy("marine", 104, 40),
	)
	ts.RunTicks(3)
	return ts.Manager.Snapshot()
}

func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()
	snap := sampleSnapshot(t)

	if _, err := st.Load(ctx, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Load(missing) err = %v", err)
	}
	if err := st.Save(ctx, "../escape", snap); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Save(../escape) err = %v", err)
	}
	if err := st.Save(ctx, "slot1", snap); err != nil {
		t.Fatal(err)
	}
	if err := st.Save(ctx, "slot0", snap); err != nil {
		t.Fatal(err)
	}

	got, err := st.Load(ctx, "slot1")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != snap.ID || got.Tick != snap.Tick || len(got.Units) != len(snap.Units) {
		t.Fatalf("loaded %+v, saved %+v", got, snap)
	}
	for i := range snap.Units {
		a, b := snap.Units[i], got.Units[i]
		if a.Type != b.Type || a.X != b.X || a.HP != b.HP || a.Target != b.Target || !slices.Equal(a.Path, b.Path) {
			t.Fatalf("unit %d: loaded %+v, saved %+v", i, b, a)
		}
	}

	fresh := game.NewTestSim()
	if err := fresh.Manager.Restore(got); err != nil {
		t.Fatalf("restore loaded record: %v", err)
	}
	if err := fresh.Manager.CheckLinks(); err != nil {
		t.Fatal(err)
	}

	names, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names, []string{"slot0", "slot1"}) {
		t.Fatalf("List = %v", names)
	}
	if err := st.Delete(ctx, "slot0"); err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(ctx, "slot0"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("second Delete err = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	st, err := NewFileStore(filepath.Join(t.TempDir(), "saves"))
	if err != nil {
		t.Fatal(err)
	}
	exerciseStore(t, st)
}

func TestOpen_FileFallback(t *testing.T) {
	st, closeFn, err := Open(context.Background(), "", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer closeFn()
	if _, ok := st.(*FileStore); !ok {
		t.Fatalf("Open without dsn = %T, want *FileStore", st)
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad"+recordExt), []byte{0xc1, 0x00, 0x17}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(context.Background(), "bad"); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("err = %v, want ErrCorruptRecord", err)
	}
}

func TestDecode_WrongRecord(t *testing.T) {
	b, err := Encode(game.Snapshot{Record: "tilemap"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(b); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("err = %v", err)
	}
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("FIELD_COMMAND_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FIELD_COMMAND_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	st, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	for _, n := range []string{"slot0", "slot1"} {
		_ = st.Delete(ctx, n)
	}
	exerciseStore(t, st)
}
