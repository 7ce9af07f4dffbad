package main

import "github.com/jmteo/gls-tracker/internal/cli"

func main() {
	cli.Execute(cli.NewTrackerCmd())
}
