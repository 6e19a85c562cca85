// Package main is the entry point of the xenon command.
package main

import (
	"github.com/sarchlab/xenon/xenon/cmd"
	"github.com/tebeka/atexit"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
