package main

import (
	"github.com/numduel/numduel/internal/cli"
)

func main() {
	cli.Execute()
}
