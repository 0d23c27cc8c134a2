package main

import "github.com/mikey/inbox-radio/internal/cli"

func main() {
	cli.Execute()
}
