// ./main.go
package main

import (
	"github.com/xkilldash9x/greenlight-cli/cmd"
)

// main is the entry point for the greenlight CLI.
func main() {
	cmd.Execute()
}
