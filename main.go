package main

import (
	"log"

	"ticket-reservation/cmd"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
