// verifyctl runs one news verification from the terminal.
//
// Usage:
//
//	verifyctl text "Scientists confirm the moon is made of cheese"
//	verifyctl url https://example.com/article
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
