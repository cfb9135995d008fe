package stdout_print

import (
	"fmt"
	"os"
)

func emit(name string, value float64) {
	fmt.Printf("%s %v\n", name, value) // want "fmt.Printf\\(\\) writes to stdout, which carries the command results"
	fmt.Println(name)                  // want "fmt.Println\\(\\) writes to stdout, which carries the command results"
	fmt.Fprintln(os.Stderr, name)
}
