// Package cli implements the storefront command-line interface: directory
// setup, seeding, table inspection and export, and the HTTP server.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds the global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

// NewRootCmd creates the top-level "storefront" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront entity storage and API server",
		Long: "Storefront stores products, orders, users and chat boards in a key-value\n" +
			"backend and serves them over a JSON HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&f.configDir, "config-dir", "", "configuration directory (env STOREFRONT_CONFIG_DIR)")
	root.PersistentFlags().StringVar(&f.dataDir, "data-dir", "", "data directory (env STOREFRONT_DATA_DIR)")
	root.PersistentFlags().BoolVar(&f.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(f),
		newInitCmd(f),
		newServeCmd(f),
		newSeedCmd(f),
		newListCmd(f),
		newGetCmd(f),
		newDeleteCmd(f),
		newExportCmd(f),
		newImportCmd(f),
		newCheckCmd(f),
	)
	return root
}

// Execute runs the root command and exits with the matching code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// cliError carries the exit code of a failed command.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error { return &cliError{code: exitUserError, err: err} }
func sysError(err error) error  { return &cliError{code: exitSysError, err: err} }

// classify marks storage errors caused by the arguments as user errors and
// everything else as system errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, types.ErrTableNotFound),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrConflict),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrDSNEmpty):
		return userError(err)
	default:
		return sysError(err)
	}
}

func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	// Flag and argument parsing errors from cobra.
	return exitUserError
}
