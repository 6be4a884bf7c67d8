// Command dqvalidate runs the hospital data-quality validation against the
// configured source and writes the history log, dashboard dataset and HTML report.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}
