package main

import (
	"os"

	"fintrack/internal/cli"
)

func main() {
	// Load .env for local development
	cli.LoadEnvFile()

	os.Exit(cli.NewApp().Execute(os.Args[1:]))
}
