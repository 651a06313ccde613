package main

import "fnscan/internal/cli"

func main() {
	cli.Execute()
}
