// Package main is the entry point for the vidpulse CLI.
package main

import (
	"github.com/samber/lo"
	"github.com/vidpulse/vidpulse/cmd"
	"github.com/vidpulse/vidpulse/config"
	"github.com/vidpulse/vidpulse/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
