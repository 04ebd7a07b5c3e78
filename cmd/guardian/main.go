// Command guardian is a gatekeeper invoked synchronously before each tool
// call of an autonomous coding agent: it reads a structured request on
// stdin, consults a declarative JSON policy, and emits an allow/deny
// decision on stdout.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
