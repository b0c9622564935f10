package main

import (
	"os"

	"github.com/lunixbochs/xecorn/go/cmd"
)

func main() {
	os.Exit(cmd.NewXecornCmd().Run(os.Args))
}
