package main

import "github.com/keurnel/machoasm/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
