package main

import (
	"log"
	"os"
)

func main() {
	send()
}

func send() {
	if _, err := os.Stat("results.csv.gz"); err != nil {
		log.Fatalf("open results: %v", err) // want "log.Fatalf\\(\\) should only be called from main function in main package"
	}
	os.Exit(2) // want "os.Exit\\(\\) should only be called from main function in main package"
}
