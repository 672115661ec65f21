// Command hashpasscode prints the bcrypt hash to put in auth.passcode_hash.
//
//	go run ./cmd/hashpasscode 4321
package main

import (
	"alcyxob/runrep/internal/service"
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpasscode <passcode>")
		os.Exit(2)
	}
	hash, err := service.HashPasscode(os.Args[1])
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	fmt.Println(hash)
}
