package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/storefront"

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

func newVersionCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the storefront version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goVersion := "unknown"
			if info, ok := debug.ReadBuildInfo(); ok {
				goVersion = info.GoVersion
			}
			if f.jsonMode {
				return render(cmd.OutOrStdout(), true, map[string]string{
					"version": Version,
					"module":  modulePath,
					"go":      goVersion,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storefront %s\nmodule: %s\ngo: %s\n", Version, modulePath, goVersion)
			return nil
		},
	}
}
