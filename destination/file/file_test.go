package file

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/logfan/logfan/core"
	"github.com/logfan/logfan/dispatch"
)

func deliver(t *testing.T, d *Destination, line string) {
	t.Helper()
	if err := d.Deliver(line, nil); err != nil {
		t.Fatalf("Deliver(%q) failed: %v", line, err)
	}
}

func backupFiles(t *testing.T, path string) []string {
	t.Helper()
	matches, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatal(err)
	}
	return matches
}

func TestWriteAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	deliver(t, d, "first line")
	deliver(t, d, "second line\n")

	if err := d.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first line\nsecond line\n" {
		t.Errorf("unexpected file content: %q", string(data))
	}
}

func TestSizeRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path, MaxSize: 40})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	for i := 0; i < 10; i++ {
		deliver(t, d, "a message long enough to trip the limit")
	}

	if got := backupFiles(t, path); len(got) == 0 {
		t.Error("expected rotated backups, found none")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("current file missing after rotation: %v", err)
	}
}

func TestMaxBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path, MaxSize: 20, MaxBackups: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	for i := 0; i < 20; i++ {
		deliver(t, d, "a message long enough to trip the limit")
		// Backup names carry millisecond timestamps; space rotations out
		// so each gets a distinct name.
		time.Sleep(2 * time.Millisecond)
	}

	if got := backupFiles(t, path); len(got) > 2 {
		t.Errorf("expected at most 2 backups, found %d: %v", len(got), got)
	}
}

func TestRotateInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path, RotateInterval: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	deliver(t, d, "before")
	time.Sleep(80 * time.Millisecond)
	deliver(t, d, "after")

	if got := backupFiles(t, path); len(got) != 1 {
		t.Fatalf("expected 1 backup, found %d: %v", len(got), got)
	}
	if err := d.Flush(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "before") {
		t.Error("rotated content still present in current file")
	}
	if !strings.Contains(string(data), "after") {
		t.Error("current file missing post-rotation line")
	}
}

func TestCompressedBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path, Compress: true})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	deliver(t, d, "payload survives compression")
	if err := d.Rotate(); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}

	backups := backupFiles(t, path)
	if len(backups) != 1 || !strings.HasSuffix(backups[0], ".gz") {
		t.Fatalf("expected a single .gz backup, got %v", backups)
	}

	f, err := os.Open(backups[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload survives compression\n" {
		t.Errorf("unexpected decompressed content: %q", string(data))
	}
}

func TestDeliverAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := d.Deliver("late", nil); err != os.ErrClosed {
		t.Errorf("Deliver after Close = %v, want os.ErrClosed", err)
	}
	// Close is idempotent.
	if err := d.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestDefaultName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if d.Name() != "file:app.log" {
		t.Errorf("Name() = %q, want %q", d.Name(), "file:app.log")
	}
}

func TestThroughDispatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	d, err := New(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}

	log := dispatch.New()
	log.AddDestination(d, core.LevelAll, nil)

	log.Infof("request %d handled", 7)
	log.Error("disk full")

	// Close removes the destination, which closes the file via WillRemove.
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "request 7 handled") {
		t.Errorf("missing formatted message in %q", out)
	}
	if !strings.Contains(out, "disk full") {
		t.Errorf("missing sync message in %q", out)
	}
}
