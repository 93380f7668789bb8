package main

import "github.com/canopy-network/fundpolls/cmd/cli"

func main() {
	cli.Execute()
}
