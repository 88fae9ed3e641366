// Command blkbuster renders block-device I/O traces as video.
package main

import (
	"os"

	"github.com/roach88/blkbuster/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
