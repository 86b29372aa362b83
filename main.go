package main

import (
	"os"

	"github.com/llehouerou/rbsync/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
