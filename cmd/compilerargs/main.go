package main

import (
	"os"

	"github.com/containerd/errdefs"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errdefs.IsNotFound(err), errdefs.IsInvalidArgument(err):
		return 2
	default:
		return 1
	}
}
