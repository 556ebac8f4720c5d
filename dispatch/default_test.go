package dispatch

import (
	"testing"

	"github.com/logfan/logfan/core"
)

func TestDefaultDispatcher(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	d := New()
	SetDefault(d)
	if Default() != d {
		t.Fatal("SetDefault did not take effect")
	}

	dest := &captureDest{name: "default-sink"}
	AddDestination(dest, core.LevelAll, nil)

	Error("sync error")
	Infof("info %d", 7)
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	got := dest.received()
	if len(got) != 2 || got[0] != "sync error" || got[1] != "info 7" {
		t.Errorf("received %v", got)
	}

	SetThreshold("quiet", core.LevelOff)
	Named("quiet").Error("dropped")
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := dest.received(); len(got) != 2 {
		t.Errorf("muted scope leaked: %v", got)
	}
	if s := Scopes(); len(s) != 1 || s[0] != "quiet" {
		t.Errorf("Scopes() = %v", s)
	}
	if Threshold("quiet") != core.LevelOff {
		t.Errorf("Threshold(quiet) = %v", Threshold("quiet"))
	}

	if !RemoveDestination(dest) {
		t.Error("RemoveDestination returned false")
	}
	RemoveAllDestinations()
	if err := Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := Destinations(); len(got) != 0 {
		t.Errorf("Destinations() = %v", got)
	}
}
