package evidence

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

func TestWriteSheetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ANA_ivr.xlsx")
	headers := []model.Header{
		{Name: "cuenta", Key: "cuenta"},
		{Name: "nombre", Key: "nombre"},
		{Name: "Observación", Key: "observación"},
	}
	rows := []model.Row{
		{"cuenta": "107069101002288680", "nombre": "ANA", "observación": "ok"},
		{"cuenta": "2", "nombre": "ANA"},
	}

	w := NewFiles()
	require.NoError(t, w.WriteSheet(context.Background(), path, headers, rows))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"cuenta", "nombre", "Observación"}, got[0])
	assert.Equal(t, []string{"107069101002288680", "ANA", "ok"}, got[1])
	assert.Equal(t, []string{"2", "ANA"}, got[2][:2])

	styleID, err := f.GetCellStyle("Sheet1", "A2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, numFmtText, style.NumFmt)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestWriteSheetMissingDirIsWriteError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.xlsx")
	err := NewFiles().WriteSheet(context.Background(), path, []model.Header{{Name: "a", Key: "a"}}, nil)

	var we *model.WriteError
	require.True(t, errors.As(err, &we), "got %v", err)
	assert.Equal(t, path, we.Path)
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "audio.mp3")
	dst := filepath.Join(dir, "ivr_ANA.mp3")
	require.NoError(t, os.WriteFile(src, []byte("ID3-audio-bytes"), 0644))

	require.NoError(t, NewFiles().Copy(context.Background(), src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "ID3-audio-bytes", string(data))

	si, _ := os.Stat(src)
	di, _ := os.Stat(dst)
	assert.True(t, si.ModTime().Equal(di.ModTime()))
}

func TestCopyLogsLostModTime(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	chtimes = func(string, time.Time, time.Time) error { return errors.New("read-only filesystem") }
	t.Cleanup(func() {
		slog.SetDefault(prev)
		chtimes = os.Chtimes
	})

	dir := t.TempDir()
	src := filepath.Join(dir, "audio.mp3")
	dst := filepath.Join(dir, "ivr_ANA.mp3")
	require.NoError(t, os.WriteFile(src, []byte("audio"), 0644))

	require.NoError(t, NewFiles().Copy(context.Background(), src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "audio", string(data))
	assert.Contains(t, logs.String(), "level=DEBUG")
	assert.Contains(t, logs.String(), "read-only filesystem")
}

func TestCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := NewFiles().Copy(context.Background(), filepath.Join(dir, "nope.mp3"), filepath.Join(dir, "x.mp3"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCopyCanceled(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "audio.mp3")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewFiles().Copy(ctx, src, filepath.Join(dir, "x.mp3"))
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(filepath.Join(dir, "x.mp3"))
	assert.True(t, os.IsNotExist(statErr))
}
