package formatter_test

import (
	"fmt"
	"time"

	"github.com/logfan/logfan/core"
	"github.com/logfan/logfan/formatter"
)

func ExampleNewText() {
	f := formatter.NewText(formatter.Config{})

	m := core.NewMessage("cache warmed", core.LevelAll, core.FlagInfo, "startup", "", "", 0, nil, 0)
	m.Time = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	out, _ := f.Format(m)
	fmt.Println(out)
	// Output:
	// 2026-01-15T12:00:00Z [INFO] (startup) cache warmed
}

func ExampleNewJSON() {
	f := formatter.NewJSON(formatter.Config{})

	m := core.NewMessage("disk full", core.LevelAll, core.FlagError, "", "", "", 0, nil, 0)
	m.Time = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	m.Seq = 7

	out, _ := f.Format(m)
	fmt.Println(out)
	// Output:
	// {"time":"2026-01-15T12:00:00Z","level":"error","seq":7,"message":"disk full"}
}
