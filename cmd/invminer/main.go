// Command invminer runs the offline log-inference pipeline over a JSON
// trace-set file and prints a summary of the resulting model.
package main

import (
	"fmt"
	"os"

	"invminer/internal/cli"
)

func main() {
	res, err := cli.Run(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
	fmt.Print(res.Summary)
	os.Exit(cli.ExitSuccess)
}
