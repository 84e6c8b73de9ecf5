package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/barekit/voyager/pkg/knowledge"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder captures every statement gorm builds so dry-run tests can
// assert on the generated SQL.
type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Info(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Warn(context.Context, string, ...interface{})  {}
func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

func (r *sqlRecorder) statementContaining(t *testing.T, substr string) string {
	t.Helper()
	for _, sql := range r.statements {
		if strings.Contains(sql, substr) {
			return sql
		}
	}
	t.Fatalf("no statement containing %q in %v", substr, r.statements)
	return ""
}

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, nil
}

// newDryRunStore builds a Store over a dry-run connection; statements are
// generated but never executed.
func newDryRunStore(t *testing.T) (*Store, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{}
	db, err := gorm.Open(gormpg.Open("host=localhost user=voyager dbname=voyager"), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 rec,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run connection: %v", err)
	}
	return &Store{db: db, embedder: fixedEmbedder{}}, rec
}

func TestSearchOrdersByDistanceThenRecency(t *testing.T) {
	store, rec := newDryRunStore(t)

	if _, err := store.Search(context.Background(), "hotels", "lakeside resort", 4); err != nil {
		t.Fatalf("search failed: %v", err)
	}

	sql := rec.statementContaining(t, `FROM "knowledge_records"`)
	if !strings.Contains(sql, "ORDER BY") {
		t.Fatalf("query has no ORDER BY:\n%s", sql)
	}
	if !strings.Contains(sql, "embedding <=>") {
		t.Errorf("query does not order by cosine distance:\n%s", sql)
	}
	if !strings.Contains(sql, "seq DESC") {
		t.Errorf("query does not tie-break on recency:\n%s", sql)
	}
	if !strings.Contains(sql, "index_name") {
		t.Errorf("query does not filter by index:\n%s", sql)
	}
	if !strings.Contains(sql, "LIMIT") {
		t.Errorf("query has no LIMIT:\n%s", sql)
	}
}

func TestUpsertConflictRefreshesRecency(t *testing.T) {
	store, rec := newDryRunStore(t)

	err := store.Upsert(context.Background(), "hotels", "rec-1", []float32{0.1, 0.2, 0.3}, map[string]interface{}{
		knowledge.MetadataTextKey: "Tea County Munnar",
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	sql := rec.statementContaining(t, `INSERT INTO "knowledge_records"`)
	if !strings.Contains(sql, "ON CONFLICT") {
		t.Fatalf("insert has no conflict clause:\n%s", sql)
	}
	for _, col := range []string{`"text"`, `"metadata"`, `"embedding"`} {
		if !strings.Contains(sql, col) {
			t.Errorf("conflict update misses %s:\n%s", col, sql)
		}
	}
	if !strings.Contains(sql, "nextval(pg_get_serial_sequence('knowledge_records','seq'))") {
		t.Errorf("overwrite does not refresh seq:\n%s", sql)
	}
}
