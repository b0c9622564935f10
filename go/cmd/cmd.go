package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"

	xecorn "github.com/lunixbochs/xecorn/go"
	"github.com/lunixbochs/xecorn/go/cpu"
	"github.com/lunixbochs/xecorn/go/cpu/unicorn"
	"github.com/lunixbochs/xecorn/go/log"
	"github.com/lunixbochs/xecorn/go/memory"
	"github.com/lunixbochs/xecorn/go/models"
	"github.com/lunixbochs/xecorn/go/repl"
)

type XecornCmd struct {
	Config *models.Config
	Flags  *flag.FlagSet

	Stdout io.Writer
	Stderr io.Writer
}

func NewXecornCmd() *XecornCmd {
	return &XecornCmd{
		Flags:  flag.NewFlagSet("xecorn", flag.ContinueOnError),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// PrintError prints an error, and its stack trace if it carries one.
func (c *XecornCmd) PrintError(err error) {
	w := c.Stderr
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w, "Error: %s\n", err)
	st, ok := errors.Cause(err).(stackTracer)
	if !ok {
		st, ok = err.(stackTracer)
	}
	if !ok {
		return
	}
	// full path, file:line, method
	var frames [][3]string
	for _, f := range st.StackTrace() {
		fullpath := ""
		fileline := fmt.Sprintf("%s:%d", f, f)
		method := fmt.Sprintf("%n", f)

		tmp := strings.SplitN(fmt.Sprintf("%+s", f), "\n", 3)
		if len(tmp) == 2 {
			pathsplit := strings.Split(tmp[0], "/")
			method = pathsplit[len(pathsplit)-1]
			fullpath = strings.TrimSpace(tmp[1])
		}
		frames = append(frames, [3]string{fullpath, fileline, method})
		if method == "main.main" {
			break
		}
	}
	var widths [2]int
	for _, f := range frames {
		for i := range widths {
			if len(f[i]) > widths[i] {
				widths[i] = len(f[i])
			}
		}
	}
	for _, f := range frames {
		for i := range widths {
			if widths[i] > 0 {
				fmt.Fprintf(w, "%-*s | ", widths[i], f[i])
			}
		}
		fmt.Fprintf(w, "%s()\n", f[2])
	}
}

// Run parses argv and returns the process exit status.
func (c *XecornCmd) Run(argv []string) int {
	fs := c.Flags
	fs.SetOutput(c.Stderr)

	verbose := fs.Bool("v", false, "verbose logging")
	trace := fs.Bool("trace", false, "trace export calls")
	strsize := fs.Int("strsize", 30, "limit traced strings to this length (0 disables)")
	content := fs.String("content", "", "host directory backing the game: device")
	outfile := fs.String("o", "", "redirect trace and log output to file (default stderr)")
	useUnicorn := fs.Bool("unicorn", false, "execute guest code with Unicorn instead of the register-file processor")

	dump := fs.String("dump", "", "write the export map to <file>")
	load := fs.String("load", "", "read an export map from <file> and list it")
	list := fs.String("list", "", "list the exports of <module>")
	interactive := fs.Bool("repl", false, "start an interactive inspector")

	cpuprofile := fs.String("cpuprofile", "", "write cpu profile to <file>")

	fs.Usage = func() {
		fmt.Fprintf(c.Stderr, "Usage: %s [options]\n\nOptions:\n", argv[0])
		var flags []*flag.Flag
		fs.VisitAll(func(f *flag.Flag) { flags = append(flags, f) })
		models.PrintFlags(c.Stderr, flags)
		fmt.Fprintf(c.Stderr, "\nExample:\n  %s -content ./game -trace -repl\n", argv[0])
	}
	if err := fs.Parse(argv[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return 2
	}

	if *load != "" {
		if err := c.listMap(*load); err != nil {
			c.PrintError(err)
			return 1
		}
		return 0
	}

	config := &models.Config{
		TraceCalls: *trace,
		Strsize:    *strsize,
		Verbose:    *verbose,
		Output:     c.Stderr,
	}
	if f, ok := c.Stderr.(*os.File); ok {
		config.Color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		if config.Color {
			config.Output = colorable.NewColorable(f)
		}
	}
	if *content != "" {
		abs, err := filepath.Abs(*content)
		if err != nil {
			c.PrintError(errors.Wrap(err, "bad -content"))
			return 1
		}
		config.ContentRoot = abs
	}
	if *outfile != "" {
		out, err := os.OpenFile(*outfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			c.PrintError(errors.Wrap(err, "failed to open -o"))
			return 1
		}
		defer out.Close()
		config.Output = out
		config.Color = false
	}
	c.Config = config
	log.Reconfigure(config.Output, config.Verbose, config.Color)

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			c.PrintError(errors.Wrap(err, "failed to create cpu profile"))
			return 1
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	var opts []xecorn.Option
	if *useUnicorn {
		opts = append(opts, xecorn.WithProcessor(func(mem *memory.Memory) (models.Processor, error) {
			return unicorn.New(mem)
		}))
	}
	r, err := xecorn.NewRuntime(config, opts...)
	if err != nil {
		c.PrintError(err)
		return 1
	}
	defer r.Shutdown()

	if *dump != "" {
		if err := c.dumpMap(r, *dump); err != nil {
			c.PrintError(err)
			return 1
		}
	}
	ctx := repl.NewContext(r, c.Stdout)
	switch {
	case *list != "":
		repl.Run(ctx, "exports "+*list)
	case *interactive:
		rp, err := repl.NewRepl(r)
		if err != nil {
			c.PrintError(errors.Wrap(err, "failed to start repl"))
			return 1
		}
		if err := rp.Run(); err != nil {
			c.PrintError(err)
			return 1
		}
	case *dump == "":
		repl.Run(ctx, "modules")
	}
	return 0
}

func (c *XecornCmd) dumpMap(r *xecorn.Runtime, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export map")
	}
	if err := r.Resolver.WriteMap(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to write export map")
}

func (c *XecornCmd) listMap(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "failed to open export map")
	}
	defer f.Close()
	tables, err := cpu.ReadMap(f)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	for _, t := range tables {
		fmt.Fprintf(c.Stdout, "%s: %d/%d exports\n", t.Module, t.Len(), t.Capacity())
		for _, e := range t.Exports() {
			fmt.Fprintf(c.Stdout, "  %s\n", e)
		}
	}
	return nil
}
