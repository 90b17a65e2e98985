package main

import "github.com/wardenlabs/tradewarden/internal/cli"

func main() {
	cli.Execute()
}
