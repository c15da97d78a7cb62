// Command pbvalidate checks participatory-budgeting (.pb) files for
// structural, schema, consistency, and selection-rule problems.
package main

import (
	"fmt"
	"log"
	"os"
)

// exitErr carries a process exit code alongside a user-facing message.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func main() {
	logger := log.New(os.Stderr, "pbvalidate: ", 0)

	if err := newRootCmd(logger).Execute(); err != nil {
		var ee *exitErr
		if e, ok := err.(*exitErr); ok {
			ee = e
		}
		if ee != nil {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, ee.msg)
			}
			os.Exit(ee.code)
		}
		logger.Println(err)
		os.Exit(2)
	}
}
