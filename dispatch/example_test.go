package dispatch_test

import (
	"io"

	"github.com/logfan/logfan/core"
	"github.com/logfan/logfan/destination/console"
	"github.com/logfan/logfan/dispatch"
	"github.com/logfan/logfan/formatter"
)

// Use the package-level default dispatcher for quick, no-setup logging.
func Example() {
	dispatch.AddDestination(console.New(console.Config{}), core.LevelInfo, formatter.NewText(formatter.Config{}))

	dispatch.Infof("listening on :%d", 8080)
	dispatch.Error("bind failed")

	dispatch.Flush()
}

// Build a dispatcher with formatted console output and a muted scope.
func ExampleNew() {
	log := dispatch.New()
	defer log.Close()

	log.AddDestination(
		console.New(console.Config{Writer: io.Discard}),
		core.LevelDebug,
		formatter.NewText(formatter.Config{ShowOrigin: true}),
	)
	log.SetThreshold("wire", core.LevelWarning)

	log.Info("cache warmed")
	log.Named("wire").Debug("frame dump suppressed by scope threshold")
}

// Sync delivery for a specific call regardless of its severity.
func ExampleDispatcher_Log() {
	log := dispatch.New()
	defer log.Close()

	log.AddDestination(console.New(console.Config{Writer: io.Discard}), core.LevelAll, nil)

	// Info is normally asynchronous; force this one to be flushed
	// through every destination before returning.
	log.Log(false, core.LevelAll, core.FlagInfo, "", 0, nil, "checkpoint %d written", 12)
}
