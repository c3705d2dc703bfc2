package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docxrec/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRunAndRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	records := []model.Record{
		{Identifier: "54321", FirstCellValue: "Alpha", SecondCellValue: "Beta"},
		{Identifier: "", FirstCellValue: "홍길동", SecondCellValue: ""},
	}

	run, err := s.SaveRun(ctx, "orders.docx", "DOCX", records, 1)
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)
	assert.Equal(t, 2, run.RecordCount)
	assert.Equal(t, 1, run.WarningCount)

	got, err := s.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	stored, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "orders.docx", stored.Source)
	assert.Equal(t, "DOCX", stored.Format)
	assert.True(t, stored.CreatedAt.Equal(run.CreatedAt))
}

func TestSaveRun_Empty(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.SaveRun(ctx, "empty.docx", "DOCX", nil, 0)
	require.NoError(t, err)

	got, err := s.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.docx", "b.docx", "c.docx"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		_, err := s.SaveRun(ctx, name, "DOCX", nil, 0)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c.docx", runs[0].Source)
	assert.Equal(t, "a.docx", runs[2].Source)

	runs, err = s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b.docx", runs[1].Source)
}

func TestNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Records(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteRun(ctx, "missing"), ErrNotFound)
}

func TestDeleteRunCascades(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	run, err := s.SaveRun(ctx, "x.docx", "DOCX", []model.Record{{Identifier: "11111"}}, 0)
	require.NoError(t, err)
	require.NoError(t, s.DeleteRun(ctx, run.ID))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	assert.Zero(t, n)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	run, err := s.SaveRun(ctx, "x.docx", "ODT", []model.Record{{Identifier: "11111"}}, 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Records(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "11111", got[0].Identifier)
	assert.Equal(t, path, s.Path())
}
