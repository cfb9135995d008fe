package nonmain_exit

import "os"

func main() {
	os.Exit(1) // want "os.Exit\\(\\) should only be called from main function in main package"
}
