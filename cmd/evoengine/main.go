package main

import "github.com/evoengine/evoengine/pkg/cli"

func main() {
	cli.Execute(cli.NewRootCommand())
}
