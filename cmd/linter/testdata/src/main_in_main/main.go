package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) > 3 {
		log.Fatal("too many arguments")
	}
	fmt.Println("metric,value,_time")
	os.Exit(0)
}
