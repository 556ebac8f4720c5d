// Package file provides a rotating file destination.
//
// Rendered lines are buffered through a bufio.Writer and the file is
// rotated by size, age, or a fixed interval. Rotated files are renamed
// with a timestamp suffix and can optionally be gzip-compressed; old
// backups beyond MaxBackups are removed.
package file

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/logfan/logfan/core"
)

const backupTimeLayout = "2006-01-02T15-04-05.000"

// Config holds configuration for a file destination.
type Config struct {
	// Path is the log file path. Required.
	Path string
	// Name identifies the destination (default: "file:<basename>").
	Name string
	// MaxSize is the maximum size in bytes before rotation (0 = no size rotation).
	MaxSize int64
	// MaxAge is the maximum age of the current file before rotation (0 = disabled).
	MaxAge time.Duration
	// RotateInterval rotates on a fixed cadence regardless of size (0 = disabled).
	RotateInterval time.Duration
	// MaxBackups is the number of rotated files to retain (0 = keep all).
	MaxBackups int
	// Compress gzips rotated backups.
	Compress bool
	// BufferSize is the bufio write buffer size (default: 4096).
	BufferSize int
}

// Destination writes rendered log lines to a file with rotation.
type Destination struct {
	mu   sync.Mutex
	cfg  Config
	name string

	file        *os.File
	bufWriter   *bufio.Writer
	currentSize int64
	lastRotate  time.Time
	hasRotation bool
	closed      bool
}

// New opens (or creates) the log file at cfg.Path, creating parent
// directories as needed.
func New(cfg Config) (*Destination, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file destination: path is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 4096
	}
	if cfg.Name == "" {
		cfg.Name = "file:" + filepath.Base(cfg.Path)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Destination{
		cfg:         cfg,
		name:        cfg.Name,
		file:        f,
		bufWriter:   bufio.NewWriterSize(f, cfg.BufferSize),
		currentSize: info.Size(),
		lastRotate:  time.Now(),
		hasRotation: cfg.MaxSize > 0 || cfg.MaxAge > 0 || cfg.RotateInterval > 0,
	}, nil
}

// Deliver appends the rendered line to the file, rotating first if the
// current file is due.
func (d *Destination) Deliver(rendered string, _ *core.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return os.ErrClosed
	}
	if err := d.rotateIfNeeded(); err != nil {
		return err
	}

	n, err := d.bufWriter.WriteString(rendered)
	if err != nil {
		return err
	}
	d.currentSize += int64(n)
	if !strings.HasSuffix(rendered, "\n") {
		if err := d.bufWriter.WriteByte('\n'); err != nil {
			return err
		}
		d.currentSize++
	}
	return nil
}

// Flush flushes buffered data and syncs the file to disk.
func (d *Destination) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.file == nil {
		return nil
	}
	if err := d.bufWriter.Flush(); err != nil {
		return err
	}
	return d.file.Sync()
}

// WillRemove closes the file when the destination is detached from a
// dispatcher.
func (d *Destination) WillRemove() {
	d.Close()
}

// Close flushes and closes the underlying file. Subsequent Deliver calls
// return os.ErrClosed.
func (d *Destination) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.file == nil {
		return nil
	}
	if err := d.bufWriter.Flush(); err != nil {
		d.file.Close()
		return err
	}
	if err := d.file.Sync(); err != nil {
		d.file.Close()
		return err
	}
	return d.file.Close()
}

// Name returns the configured destination name.
func (d *Destination) Name() string {
	return d.name
}

// Rotate forces an immediate rotation.
func (d *Destination) Rotate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return os.ErrClosed
	}
	return d.rotate()
}

func (d *Destination) rotateIfNeeded() error {
	if !d.hasRotation {
		return nil
	}

	due := false
	if d.cfg.MaxSize > 0 && d.currentSize >= d.cfg.MaxSize {
		due = true
	}
	if d.cfg.MaxAge > 0 && time.Since(d.lastRotate) >= d.cfg.MaxAge {
		due = true
	}
	if d.cfg.RotateInterval > 0 && time.Since(d.lastRotate) >= d.cfg.RotateInterval {
		due = true
	}
	if !due {
		return nil
	}
	return d.rotate()
}

func (d *Destination) rotate() error {
	if err := d.bufWriter.Flush(); err != nil {
		return err
	}
	if err := d.file.Sync(); err != nil {
		return err
	}
	if err := d.file.Close(); err != nil {
		return err
	}

	backup := fmt.Sprintf("%s.%s", d.cfg.Path, time.Now().Format(backupTimeLayout))
	if err := os.Rename(d.cfg.Path, backup); err != nil {
		// Reopen the original so logging can continue.
		f, openErr := os.OpenFile(d.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if openErr != nil {
			return fmt.Errorf("rotation failed: %v, reopen failed: %v", err, openErr)
		}
		d.file = f
		d.bufWriter.Reset(f)
		return err
	}

	if d.cfg.Compress {
		if err := compressBackup(backup); err == nil {
			os.Remove(backup)
		}
	}
	if d.cfg.MaxBackups > 0 {
		d.cleanupBackups()
	}

	f, err := os.OpenFile(d.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	d.file = f
	d.bufWriter.Reset(f)
	d.currentSize = 0
	d.lastRotate = time.Now()
	return nil
}

// compressBackup gzips path into path+".gz". The original is left in
// place; the caller removes it once compression succeeded.
func compressBackup(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		dst.Close()
		os.Remove(path + ".gz")
		return err
	}
	if err := zw.Close(); err != nil {
		dst.Close()
		os.Remove(path + ".gz")
		return err
	}
	return dst.Close()
}

// cleanupBackups removes the oldest rotated files beyond MaxBackups.
func (d *Destination) cleanupBackups() {
	dir := filepath.Dir(d.cfg.Path)
	base := filepath.Base(d.cfg.Path)

	matches, err := filepath.Glob(filepath.Join(dir, base+".*"))
	if err != nil {
		return
	}

	var backups []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), base+".") {
			backups = append(backups, m)
		}
	}
	if len(backups) <= d.cfg.MaxBackups {
		return
	}

	sort.Slice(backups, func(i, j int) bool {
		infoI, errI := os.Stat(backups[i])
		infoJ, errJ := os.Stat(backups[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	for _, old := range backups[:len(backups)-d.cfg.MaxBackups] {
		if err := os.Remove(old); err != nil {
			return
		}
	}
}
