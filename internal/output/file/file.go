package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
)

const (
	defaultBufSize = 32 * 1024
	defaultBackups = 3
)

// Option configures a file Output.
type Option func(*Output)

// WithMaxSize starts a new file once the current one would grow past bytes.
// 0 (default) lets the file grow without limit.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithBackups sets how many rotated files ({path}.1 newest) are kept.
// 0 discards the old content on rotation. Default: 3.
func WithBackups(n int) Option {
	return func(o *Output) { o.backups = n }
}

// WithBufSize sets the bufio.Writer buffer size. Default: 32KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithMinLevel drops events below level. Default: debug (keep everything).
func WithMinLevel(level model.Level) Option {
	return func(o *Output) { o.minLevel = level }
}

// Output appends progress events as NDJSON to a file. A front end tailing
// the file sees one JSON object per line.
type Output struct {
	w        *bufio.Writer
	f        *os.File
	mu       sync.Mutex
	path     string
	minLevel model.Level
	maxSize  int64 // 0 = no rotation
	backups  int
	written  int64
	bufSize  int
}

// New opens (or creates) path for appending.
func New(path string, opts ...Option) (*Output, error) {
	o := &Output{
		path:     path,
		minLevel: model.LevelDebug,
		bufSize:  defaultBufSize,
		backups:  defaultBackups,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.openFile(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write encodes the event and appends it as a line. The line is flushed
// immediately so tailing readers observe progress as it happens.
func (o *Output) Write(_ context.Context, event model.Event) error {
	if !output.Visible(event.Level, o.minLevel) {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("file output: marshal: %w", err)
	}
	data = append(data, '\n')

	if o.maxSize > 0 && o.written > 0 && o.written+int64(len(data)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("file output: rotate: %w", err)
		}
	}

	n, err := o.w.Write(data)
	o.written += int64(n)
	if err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	if err := o.w.Flush(); err != nil {
		return fmt.Errorf("file output: flush: %w", err)
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	return o.f.Close()
}

func (o *Output) openFile() error {
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("file output: stat %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, o.bufSize)
	o.written = info.Size()
	return nil
}

// rotate moves the current file to {path}.1, shifting older backups up and
// dropping the one past the limit, then reopens path empty.
func (o *Output) rotate() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}

	if o.backups <= 0 {
		if err := os.Remove(o.path); err != nil {
			return err
		}
	} else {
		if err := removeIfExists(o.backup(o.backups)); err != nil {
			return err
		}
		for i := o.backups - 1; i >= 1; i-- {
			if err := os.Rename(o.backup(i), o.backup(i+1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}
		if err := os.Rename(o.path, o.backup(1)); err != nil {
			return err
		}
	}

	o.written = 0
	return o.openFile()
}

func (o *Output) backup(n int) string {
	return fmt.Sprintf("%s.%d", o.path, n)
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
