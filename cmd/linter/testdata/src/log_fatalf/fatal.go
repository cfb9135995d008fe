package log_fatalf

import "log"

func dispatch(addr string) {
	if addr == "" {
		log.Fatalf("empty address %q", addr) // want "log.Fatalf\\(\\) should only be called from main function in main package"
	}
	log.Printf("sending to %s", addr)
}
