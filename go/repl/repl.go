package repl

import (
	"io"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/shibukawa/configdir"

	xecorn "github.com/lunixbochs/xecorn/go"
)

type Repl struct {
	ctx *Context
	rl  *readline.Instance
}

func NewRepl(r *xecorn.Runtime) (*Repl, error) {
	configDirs := configdir.New("xecorn", "repl")
	cacheDir := configDirs.QueryCacheFolder()
	historyPath := ""
	if err := cacheDir.MkdirAll(); err == nil {
		historyPath = filepath.Join(cacheDir.Path, "history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "xecorn> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryFile:     historyPath,
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, err
	}
	return &Repl{ctx: NewContext(r, rl.Stdout()), rl: rl}, nil
}

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range Sorted() {
		items = append(items, readline.PcItem(cmd.Name))
	}
	return readline.NewPrefixCompleter(items...)
}

// Run reads commands until EOF.
func (r *Repl) Run() error {
	defer r.rl.Close()
	for {
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		Run(r.ctx, line)
	}
}
