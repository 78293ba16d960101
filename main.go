// ./main.go
package main

import (
	"github.com/xkilldash9x/pagewrap/cmd"
)

// main is the entry point for the pagewrap CLI.
func main() {
	cmd.Execute()
}
