package main

import (
	"log"

	"github.com/thiagokokada/git-branches-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("git-branches: %v", err)
	}
}
