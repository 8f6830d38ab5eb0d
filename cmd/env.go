package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docforge/docforge/internal/bootstrap"
)

var envFormat string

// EnvReport describes the prepared runtime of this process.
type EnvReport struct {
	Version           string                  `json:"version" yaml:"version"`
	InstallRoot       string                  `json:"install_root" yaml:"install_root"`
	TemplateDirectory string                  `json:"template_directory" yaml:"template_directory"`
	CacheFolder       string                  `json:"cache_folder,omitempty" yaml:"cache_folder,omitempty"`
	State             string                  `json:"state" yaml:"state"`
	Normalization     bootstrap.Normalization `json:"normalization" yaml:"normalization"`
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the prepared runtime environment",
	Long: `Show what docforge resolved while preparing its runtime:

- Installed version and installation root
- Template directory in use
- Cache folder, if one was configured
- Timezone and memory limit adjustments
- Runtime extensions inspected for comment stripping

Examples:
  docforge env
  docforge env --cache-folder /var/cache/docforge
  docforge env --format yaml`,
	RunE: runEnv,
}

func init() {
	rootCmd.AddCommand(envCmd)

	addOutputFlags(envCmd, &envFormat)
}

func runEnv(cmd *cobra.Command, args []string) error {
	report, err := buildEnvReport(app)
	if err != nil {
		return err
	}

	return render(cmd.OutOrStdout(), envFormat, report, func(w io.Writer) error {
		return writeEnvText(w, report)
	})
}

func buildEnvReport(a *bootstrap.Application) (*EnvReport, error) {
	release, err := a.Version()
	if err != nil {
		return nil, err
	}

	report := &EnvReport{
		Version:           release,
		InstallRoot:       a.InstallRoot(),
		TemplateDirectory: a.TemplateDirectory(),
		State:             a.State().String(),
		Normalization:     a.Normalization(),
	}

	folder, err := a.CacheFolder()
	switch {
	case err == nil:
		report.CacheFolder = folder
	case errors.Is(err, bootstrap.ErrCacheFolderUnset):
		// Reported through State; no folder was configured.
	default:
		return nil, err
	}

	return report, nil
}

func writeEnvText(w io.Writer, r *EnvReport) error {
	cache := r.CacheFolder
	if cache == "" {
		cache = "(unset)"
	}

	tz := r.Normalization.Timezone
	if r.Normalization.TimezoneForced {
		tz += " (defaulted)"
	}

	inspected := "none loaded"
	if len(r.Normalization.InspectedExtensions) > 0 {
		inspected = strings.Join(r.Normalization.InspectedExtensions, ", ")
	}

	lines := []struct{ label, value string }{
		{"Version", r.Version},
		{"Install root", r.InstallRoot},
		{"Template directory", r.TemplateDirectory},
		{"Cache folder", cache},
		{"State", r.State},
		{"Timezone", tz},
		{"Memory limit", fmt.Sprintf("disabled (was %d bytes)", r.Normalization.PreviousMemoryLimit)},
		{"Comment stripping", "ok, inspected: " + inspected},
	}

	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-20s %s\n", l.label+":", l.value); err != nil {
			return err
		}
	}
	return nil
}
