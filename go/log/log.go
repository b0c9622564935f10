package log

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

var L hclog.Logger

func init() {
	L = hclog.New(&hclog.LoggerOptions{Name: "xecorn"})
	L.SetLevel(hclog.Info)

	if str := os.Getenv("XECORN_TRACE"); str != "" {
		L.SetLevel(hclog.Trace)
	}
}

// Reconfigure replaces L, used by the CLI once flags are parsed.
func Reconfigure(w io.Writer, verbose, color bool) {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	if os.Getenv("XECORN_TRACE") != "" {
		level = hclog.Trace
	}
	colorOpt := hclog.ColorOff
	if color {
		colorOpt = hclog.AutoColor
	}
	L = hclog.New(&hclog.LoggerOptions{
		Name:   "xecorn",
		Level:  level,
		Output: w,
		Color:  colorOpt,
	})
}
