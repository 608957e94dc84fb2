// Package cli implements the kanban command-line interface.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kanbanwave/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values shared by all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
}

// NewRootCmd creates the top-level "kanban" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}
	root := &cobra.Command{
		Use:   "kanban",
		Short: "Boards, lists, and cards with explicit ordering",
		Long: "kanban manages boards of ordered lists of ordered cards.\n" +
			"Every container keeps an explicit order; moves reorder it in place.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configDir, "config-dir", "", "configuration directory (env "+envPrefix+"_CONFIG_DIR)")
	pf.StringVar(&f.dataDir, "data-dir", "", "data directory (default: .kanban-db)")
	pf.StringVar(&f.backend, "backend", "", "storage backend: sqlite or memory")
	pf.BoolVar(&f.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(f),
		newBoardCmd(f),
		newListCmd(f),
		newCardCmd(f),
		newDropCmd(f),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// sysError marks failures of the environment rather than of the request.
type sysError struct{ err error }

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

func systemError(err error) error {
	if err == nil {
		return nil
	}
	return &sysError{err: err}
}

// storageError marks errors that no sentinel classifies, such as failed
// file writes, as system errors.
func storageError(err error) error {
	if err == nil || types.ResultOf(err).Kind != types.KindInternal {
		return err
	}
	var se *sysError
	if errors.As(err, &se) {
		return err
	}
	return systemError(err)
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var se *sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se), errors.Is(err, types.ErrStorageDetached):
		return exitSysError
	default:
		return exitUserError
	}
}
