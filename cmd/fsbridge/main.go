package main

import (
	"os"
)

func main() {
	Execute()
	os.Exit(exitCode)
}
