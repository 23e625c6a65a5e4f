package main

import "agrimap/internal/cli"

func main() {
	cli.Execute()
}
