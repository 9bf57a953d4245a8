package main

import (
	"os"

	"github.com/lixenwraith/xarrow/surface"
)

func main() {
	// Restore the terminal before reporting a panic on the loop goroutine
	defer func() {
		if r := recover(); r != nil {
			surface.HandleCrash(r)
		}
	}()

	os.Exit(execute(os.Args[1:], os.Stderr, surface.NewScreen))
}
