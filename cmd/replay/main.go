// Command replay runs a stored GitLab webhook payload through the rules, the
// same way the API does on delivery.
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
