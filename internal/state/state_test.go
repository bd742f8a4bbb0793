package state

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open state: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestGet_Missing(t *testing.T) {
	s := openStore(t)

	_, ok, err := s.Get("IF-MIB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected no record")
	}
}

func TestPutGet(t *testing.T) {
	s := openStore(t)

	mtime := time.Date(2024, 3, 1, 12, 0, 0, 123, time.UTC)
	stored := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)

	record := Record{
		Name:          "IF-MIB",
		Origin:        "file:///mibs/IF-MIB.txt",
		FileName:      "IF-MIB.txt",
		SourceModTime: mtime,
		StoredAt:      stored,
	}

	if err := s.Put(record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := s.Get("IF-MIB")
	if err != nil || !ok {
		t.Fatalf("expected record, got ok=%v err=%v", ok, err)
	}

	if got.Name != record.Name || got.Origin != record.Origin || got.FileName != record.FileName {
		t.Errorf("unexpected record %+v", got)
	}
	if !got.SourceModTime.Equal(mtime) {
		t.Errorf("source mtime = %v, want %v", got.SourceModTime, mtime)
	}
	if !got.StoredAt.Equal(stored) {
		t.Errorf("stored at = %v, want %v", got.StoredAt, stored)
	}
}

func TestPut_Replaces(t *testing.T) {
	s := openStore(t)

	first := Record{Name: "M", Origin: "file:///a/M", FileName: "M", SourceModTime: time.Unix(10, 0)}
	second := Record{Name: "M", Origin: "file:///b/M.txt", FileName: "M.txt", SourceModTime: time.Unix(20, 0)}

	for _, r := range []Record{first, second} {
		if err := s.Put(r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single record, got %d", len(records))
	}
	if records[0].Origin != second.Origin || !records[0].SourceModTime.Equal(second.SourceModTime) {
		t.Errorf("expected the later record to win, got %+v", records[0])
	}
}

func TestPut_RequiresName(t *testing.T) {
	s := openStore(t)

	if err := s.Put(Record{}); err == nil {
		t.Errorf("expected error for unnamed record")
	}
}

func TestList_Ordered(t *testing.T) {
	s := openStore(t)

	for _, name := range []string{"SNMPv2-MIB", "IF-MIB", "SNMPv2-CONF"} {
		if err := s.Put(Record{Name: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := s.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}

	want := []string{"IF-MIB", "SNMPv2-CONF", "SNMPv2-MIB"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	s := openStore(t)

	if err := s.Put(Record{Name: "M"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("M"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok, _ := s.Get("M"); ok {
		t.Errorf("expected record to be deleted")
	}
}

func TestOpen_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Record{Name: "M", SourceModTime: time.Unix(42, 0)}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	got, ok, err := s.Get("M")
	if err != nil || !ok {
		t.Fatalf("expected record after reopening, got ok=%v err=%v", ok, err)
	}
	if got.SourceModTime.Unix() != 42 {
		t.Errorf("unexpected mtime %v", got.SourceModTime)
	}
}

func TestPutGet_ChangeTime(t *testing.T) {
	s := openStore(t)

	ctime := time.Date(2024, 3, 1, 12, 0, 5, 0, time.UTC)

	if err := s.Put(Record{Name: "A", SourceModTime: time.Unix(1, 0), SourceChangeTime: ctime}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Record{Name: "B", SourceModTime: time.Unix(1, 0)}); err != nil {
		t.Fatal(err)
	}

	a, _, err := s.Get("A")
	if err != nil {
		t.Fatal(err)
	}
	if !a.SourceChangeTime.Equal(ctime) {
		t.Errorf("recorded change time = %v, want %v", a.SourceChangeTime, ctime)
	}

	b, _, err := s.Get("B")
	if err != nil {
		t.Fatal(err)
	}
	if !b.SourceChangeTime.IsZero() {
		t.Errorf("expected unknown change time to read back as zero, got %v", b.SourceChangeTime)
	}
}

func TestOpen_MigratesLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = conn.Exec(`
CREATE TABLE modules (
    name         TEXT PRIMARY KEY,
    origin       TEXT NOT NULL,
    file_name    TEXT NOT NULL,
    source_mtime INTEGER NOT NULL,
    stored_at    INTEGER NOT NULL
);
INSERT INTO modules VALUES ('M', 'file:///mibs/M', 'M', 42000000000, 0);
`)
	if err != nil {
		t.Fatal(err)
	}
	_ = conn.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open legacy database: %v", err)
	}
	defer func() { _ = s.Close() }()

	got, ok, err := s.Get("M")
	if err != nil || !ok {
		t.Fatalf("expected legacy record, got ok=%v err=%v", ok, err)
	}
	if got.SourceModTime.Unix() != 42 || !got.SourceChangeTime.IsZero() {
		t.Errorf("unexpected legacy record %+v", got)
	}

	if err := s.Put(Record{Name: "M", SourceModTime: time.Unix(43, 0), SourceChangeTime: time.Unix(44, 0)}); err != nil {
		t.Fatalf("failed to write migrated database: %v", err)
	}
}
