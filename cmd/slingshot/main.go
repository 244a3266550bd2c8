package main

import (
	"os"

	"github.com/slingshot/slingshot/internal/cli"
)

func main() {
	cli.InitRoot()
	os.Exit(cli.ExecuteWithErrorCode(os.Args[1:]))
}
