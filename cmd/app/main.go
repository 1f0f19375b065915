package main

import (
	"os"

	"github.com/nihalsingh571/Apitask/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
