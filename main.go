package main

import (
	"log"

	"github.com/julianarmendano-prog/transfermatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
