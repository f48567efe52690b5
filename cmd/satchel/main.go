package main

import "github.com/emiliopalmerini/satchel/internal/cli"

func main() {
	cli.Execute()
}
