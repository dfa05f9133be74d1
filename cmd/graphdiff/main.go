package main

import (
	"fmt"
	"io"
	"os"

	fluxerr "github.com/fluxcd/graphdiff/pkg/errors"
)

func main() {
	rootCmd := newRoot().Command()
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		if err == errDifferences {
			os.Exit(1)
		}
		report(cmd.ErrOrStderr(), err)
		switch err.(type) {
		case usageError:
			cmd.Println("")
			cmd.Println(cmd.UsageString())
		}
		os.Exit(1)
	}
}

// report writes err for the user: with its help if it's something
// they can fix, otherwise as it is.
func report(out io.Writer, err error) {
	if e := fluxerr.For(err); e.Type != fluxerr.Server {
		fmt.Fprint(out, e.Help)
		return
	}
	fmt.Fprintf(out, "Error: %s\n", err)
}
