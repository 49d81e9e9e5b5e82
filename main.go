// file: main.go
// version: 2.0.0
// guid: 752ea804-3849-4b58-836c-8c40ee2092d9

package main

import (
	"fmt"
	"os"

	"github.com/jdfalk/library-proto/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
