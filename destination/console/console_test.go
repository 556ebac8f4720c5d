package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/logfan/logfan/core"
	"github.com/logfan/logfan/dispatch"
)

func TestDeliverAppendsNewline(t *testing.T) {
	var buf bytes.Buffer
	d := New(Config{Writer: &buf})

	if err := d.Deliver("hello", nil); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if err := d.Deliver("already terminated\n", nil); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	want := "hello\nalready terminated\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestDefaultName(t *testing.T) {
	if got := New(Config{Writer: io.Discard}).Name(); got != "console" {
		t.Errorf("Name() = %q", got)
	}
	if got := New(Config{Writer: io.Discard, Name: "tty"}).Name(); got != "tty" {
		t.Errorf("Name() = %q", got)
	}
}

func TestThroughDispatcher(t *testing.T) {
	var buf bytes.Buffer
	d := dispatch.New()
	d.AddDestination(New(Config{Writer: &buf}), core.LevelInfo, nil)

	d.Info("through the pipeline")
	d.Verbose("filtered")
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "through the pipeline") {
		t.Errorf("output missing message: %q", got)
	}
	if strings.Contains(got, "filtered") {
		t.Errorf("threshold leaked: %q", got)
	}
}
