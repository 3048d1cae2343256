package main

import "runclub/internal/cli"

func main() {
	cli.Execute()
}
