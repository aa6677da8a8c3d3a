package main

import (
	"os"

	"git.home.luguber.info/inful/tocnav/cmd/tocnav/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], &commands.CLI{}, commands.NewGlobal()))
}
