package store

import (
	"path/filepath"
	"testing"
	"time"

	"fnscan/config"
	"fnscan/internal/domain"
)

func openStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStoreDocuments(t *testing.T) {
	st := openStore(t)

	mod := time.Unix(1700000000, 123)
	docs := []domain.Document{
		{ID: "b", Path: "/src/b.c", ModTime: mod, Lang: "c"},
		{ID: "a", Path: "/src/a.c", ModTime: mod, Lang: "c"},
	}
	for _, d := range docs {
		if err := st.PutDoc(d); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	got, err := st.GetDoc("a")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Path != "/src/a.c" || !got.ModTime.Equal(mod) {
		t.Errorf("unexpected document: %+v", got)
	}

	list, err := st.ListDocs()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Path != "/src/a.c" {
		t.Errorf("expected documents sorted by path, got %+v", list)
	}

	if _, err := st.GetDoc("missing"); err == nil {
		t.Error("expected error for missing document")
	}
}

func TestBoltStoreRecords(t *testing.T) {
	st := openStore(t)

	st.PutDoc(domain.Document{ID: "2", Path: "/z.c"})
	st.PutDoc(domain.Document{ID: "1", Path: "/a.c"})

	first := []domain.FunctionRecord{
		{ReturnType: "int", FunctionName: "add", Arguments: []domain.Argument{{ArgType: "int", ArgName: "a"}}, FunctionBody: "return a;"},
		{ReturnType: "void", FunctionName: "noop", Arguments: []domain.Argument{}},
	}
	second := []domain.FunctionRecord{
		{ReturnType: "char", FunctionName: "last", Arguments: []domain.Argument{}},
	}
	if err := st.PutRecords("1", first); err != nil {
		t.Fatal(err)
	}
	if err := st.PutRecords("2", second); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetRecords("1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].FunctionBody != "return a;" || got[0].Arguments[0].ArgName != "a" {
		t.Errorf("unexpected records: %+v", got)
	}

	all, err := st.AllRecords()
	if err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, r := range all {
		names = append(names, r.FunctionName)
	}
	if len(names) != 3 || names[0] != "add" || names[1] != "noop" || names[2] != "last" {
		t.Errorf("unexpected order: %v", names)
	}

	if err := st.DeleteDoc("1"); err != nil {
		t.Fatal(err)
	}
	got, _ = st.GetRecords("1")
	if len(got) != 0 {
		t.Errorf("expected records removed with document, got %+v", got)
	}
}

func TestBoltStoreStats(t *testing.T) {
	st := openStore(t)

	if err := st.UpdateStats(domain.Stats{TotalDocs: 3, TotalRecords: 7, FailedDocs: 1}); err != nil {
		t.Fatal(err)
	}
	stats, err := st.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalDocs != 3 || stats.TotalRecords != 7 || stats.FailedDocs != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMigrationLifecycle(t *testing.T) {
	st := openStore(t)
	cfg := config.DefaultConfig()

	result, err := st.CheckMigration(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !result.NeedsMigration || result.NeedsRebuild {
		t.Errorf("expected fresh store to need migration only, got %+v", result)
	}

	if err := st.Migrate(cfg); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	result, _ = st.CheckMigration(cfg)
	if result.NeedsMigration || result.NeedsRebuild {
		t.Errorf("expected up-to-date store, got %+v", result)
	}

	changed := config.DefaultConfig()
	changed.Scan.Encoding = "shift_jis"
	result, _ = st.CheckMigration(changed)
	if !result.NeedsRebuild {
		t.Error("expected rebuild after encoding change")
	}
}

func TestClearKeepsSchema(t *testing.T) {
	st := openStore(t)
	cfg := config.DefaultConfig()
	st.Migrate(cfg)

	st.PutDoc(domain.Document{ID: "1", Path: "/a.c"})
	st.PutRecords("1", []domain.FunctionRecord{{FunctionName: "f"}})
	st.UpdateStats(domain.Stats{TotalDocs: 1})

	if err := st.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	docs, _ := st.ListDocs()
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
	all, _ := st.AllRecords()
	if len(all) != 0 {
		t.Errorf("expected no records, got %d", len(all))
	}
	info, _ := st.GetSchemaInfo()
	if info.Version != CurrentSchemaVersion {
		t.Errorf("expected schema version kept, got %d", info.Version)
	}
}
