package main

import (
	"log"

	"github.com/budhadityarishidasgupta-lang/job-hunt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
