// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("deciss: ")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
