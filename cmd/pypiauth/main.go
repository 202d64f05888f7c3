package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hnrobert/pypiauth/cmd/pypiauth/commands"
	"github.com/hnrobert/pypiauth/internal/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Close()
	switch {
	case err == nil:
	case errors.Is(err, commands.ErrRejected):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
