package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display the installed docforge version together with build details:

- Release version from the installation's VERSION file
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  docforge version                # Show version and build details
  docforge version --short        # Show the release version only
  docforge version --format json  # Output as JSON`,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	addOutputFlags(versionCmd, &versionFormat)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show the release version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	release, err := app.Version()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if versionShort && (versionFormat == formatText || versionFormat == "") {
		_, err := fmt.Fprintln(out, release)
		return err
	}

	info := version.GetBuildInfo(release)

	return render(out, versionFormat, info, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "docforge %s\n%s\n", info.String(), info.Detailed())
		return err
	})
}
