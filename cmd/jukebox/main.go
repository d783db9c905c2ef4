package main

import "github.com/tessro/jukebox/internal/cli"

func main() {
	cli.Execute()
}
