package main

import "github.com/favstats/zwemsterdam/internal/cli"

func main() {
	cli.Execute()
}
