package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd, cmdCtx := buildRootCommand()
	err := cmd.Execute()
	_ = cmdCtx.close()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
