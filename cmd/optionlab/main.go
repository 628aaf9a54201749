// Command optionlab analyzes the expiration payoff of multi-leg option strategies.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"optionlab/internal/cli"
	apperrors "optionlab/internal/errors"
	"optionlab/internal/logging"
)

func main() {
	logger := logging.NewLogger()

	root := cli.NewRootCmd(nil, logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInputValidation),
		errors.Is(err, apperrors.ErrConfigInvalid):
		return 2
	case errors.Is(err, apperrors.ErrStrategyNotFound),
		errors.Is(err, apperrors.ErrPresetNotFound),
		errors.Is(err, apperrors.ErrSymbolNotFound):
		return 3
	case errors.Is(err, apperrors.ErrQuoteUnavailable),
		errors.Is(err, apperrors.ErrLLMUnavailable):
		return 4
	}
	return 1
}
