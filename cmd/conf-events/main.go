package main

import "github.com/pfrederiksen/conf-events/internal/cli"

func main() {
	cli.Execute()
}
