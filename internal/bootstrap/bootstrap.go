// Package bootstrap prepares the process before any documentation work runs
// and holds the process-wide facts other components read: the installed
// version, the template directory and the cache folder.
//
// New normalizes the runtime exactly once:
//
//  1. the timezone defaults to UTC when none is configured
//  2. the memory limit is lifted for long analysis runs
//  3. startup is refused when a loaded extension strips doc comments
//
// The cache folder starts unset. The orchestrator sets it once, after which
// any number of readers may query it.
package bootstrap

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/docforge/docforge/internal/errors"
	"github.com/docforge/docforge/internal/logging"
)

// executable locates the running binary.
var executable = os.Executable

// VersionFile is the file, relative to the install root, holding the version.
const VersionFile = "VERSION"

// ErrCacheFolderUnset is returned by CacheFolder before SetCacheFolder ran.
var ErrCacheFolderUnset = errors.NewPreconditionError(errors.ErrCodeCacheFolderUnset,
	"cache folder should be declared before first use")

// State tracks whether the orchestrator has supplied the cache folder.
type State int

const (
	Unconfigured State = iota
	Configured
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Configured:
		return "configured"
	default:
		return "unknown"
	}
}

// Normalization records what New changed in the environment.
type Normalization struct {
	TimezoneForced      bool     `json:"timezone_forced" yaml:"timezone_forced"`
	Timezone            string   `json:"timezone" yaml:"timezone"`
	PreviousMemoryLimit int64    `json:"previous_memory_limit" yaml:"previous_memory_limit"`
	InspectedExtensions []string `json:"inspected_extensions" yaml:"inspected_extensions"`
}

type cacheFolder struct {
	path string
	set  bool
}

// Application is the runtime configuration of one docforge process.
type Application struct {
	env           Environment
	installRoot   string
	logger        logging.Logger
	strippers     []CommentStripper
	normalization Normalization
	cache         cacheFolder
}

// Option customizes New.
type Option func(*Application)

// WithInstallRoot sets the directory holding VERSION and data/templates.
func WithInstallRoot(dir string) Option {
	return func(a *Application) {
		a.installRoot = dir
	}
}

// WithLogger sets the logger used while normalizing.
func WithLogger(logger logging.Logger) Option {
	return func(a *Application) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCommentStrippers replaces the table of known comment-stripping
// extensions.
func WithCommentStrippers(table []CommentStripper) Option {
	return func(a *Application) {
		a.strippers = table
	}
}

// New normalizes env and returns the process configuration. It fails when
// the runtime would strip doc comments or the timezone cannot be applied.
func New(env Environment, opts ...Option) (*Application, error) {
	if env == nil {
		env = NewProcessEnvironment(nil, nil)
	}

	app := &Application{
		env:       env,
		logger:    logging.Discard(),
		strippers: CommentStrippers,
	}
	for _, opt := range opts {
		opt(app)
	}
	app.logger = app.logger.WithComponent("bootstrap")

	if app.installRoot == "" {
		root, err := DefaultInstallRoot()
		if err != nil {
			return nil, err
		}
		app.installRoot = root
	}

	if err := app.normalize(context.Background()); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *Application) normalize(ctx context.Context) error {
	if tz, ok := a.env.LookupSetting(TimezoneSetting); ok && strings.TrimSpace(tz) != "" {
		a.normalization.Timezone = tz
		a.logger.Debug(ctx, "Keeping configured timezone", "timezone", tz)
	} else {
		if err := a.env.SetTimezone(DefaultTimezone); err != nil {
			tzErr := errors.NewConfigError(errors.ErrCodeTimezoneInvalid, "cannot apply default timezone").
				WithComponent("bootstrap").
				WithContext("timezone", DefaultTimezone)
			tzErr.Cause = err
			return tzErr
		}
		a.normalization.TimezoneForced = true
		a.normalization.Timezone = DefaultTimezone
		a.logger.Debug(ctx, "No timezone configured, defaulting", "timezone", DefaultTimezone)
	}

	a.normalization.PreviousMemoryLimit = a.env.DisableMemoryLimit()
	if limit := a.normalization.PreviousMemoryLimit; limit >= 0 && limit < math.MaxInt64 {
		a.logger.Warn(ctx, nil, "Configured memory limit lifted", "previous_limit", limit)
	} else {
		a.logger.Debug(ctx, "Memory limit disabled", "previous_limit", limit)
	}

	inspected, err := checkCommentStripping(a.env, a.strippers)
	a.normalization.InspectedExtensions = inspected
	if err != nil {
		a.logger.Error(ctx, err, "Unsafe runtime configuration")
		return err
	}

	a.logger.With(
		"timezone", a.normalization.Timezone,
		"timezone_forced", a.normalization.TimezoneForced,
		"inspected_extensions", inspected,
	).Info(ctx, "Runtime prepared")

	return nil
}

// DefaultInstallRoot returns the parent of the directory that holds the
// running executable, so <prefix>/bin/docforge resolves to <prefix>.
func DefaultInstallRoot() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", errors.NewInstallationError(errors.ErrCodeInstallRootUnknown,
			"cannot locate executable", err).
			WithSuggestion("pass --install-root or set DOCFORGE_INSTALL_ROOT")
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

// InstallRoot returns the directory VERSION and templates are resolved from.
func (a *Application) InstallRoot() string {
	return a.installRoot
}

// Normalization reports what New changed in the environment.
func (a *Application) Normalization() Normalization {
	n := a.normalization
	n.InspectedExtensions = append([]string(nil), a.normalization.InspectedExtensions...)
	return n
}

// Version returns the trimmed contents of the install root's VERSION file.
func (a *Application) Version() (string, error) {
	path := filepath.Join(a.installRoot, VersionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewInstallationError(errors.ErrCodeVersionUnreadable,
			fmt.Sprintf("cannot read version file %s", path), err).
			WithComponent("bootstrap")
	}
	return strings.TrimSpace(string(data)), nil
}

// BundledTemplateDirectory is where templates ship inside the install root.
func (a *Application) BundledTemplateDirectory() string {
	return filepath.Join(a.installRoot, "data", "templates")
}

// AlternateTemplateDirectory is the sibling templates directory used when
// docforge is installed as a dependency of another project.
func (a *Application) AlternateTemplateDirectory() string {
	return filepath.Join(a.installRoot, "..", "templates")
}

// TemplateDirectory returns the alternate directory when it exists and the
// bundled one otherwise.
func (a *Application) TemplateDirectory() string {
	if alt := a.AlternateTemplateDirectory(); exists(alt) {
		return alt
	}
	return a.BundledTemplateDirectory()
}

// CacheFolder returns the folder set by SetCacheFolder, or
// ErrCacheFolderUnset when it has not been set yet.
func (a *Application) CacheFolder() (string, error) {
	if !a.cache.set {
		return "", ErrCacheFolderUnset
	}
	return a.cache.path, nil
}

// SetCacheFolder stores path as-is. Whether it exists or is writable is for
// the storage layer to find out.
func (a *Application) SetCacheFolder(path string) {
	a.cache = cacheFolder{path: path, set: true}
}

// State reports whether the cache folder has been supplied.
func (a *Application) State() State {
	if a.cache.set {
		return Configured
	}
	return Unconfigured
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
