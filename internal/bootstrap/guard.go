package bootstrap

import (
	"fmt"

	"github.com/docforge/docforge/internal/errors"
)

// CommentStripper describes a runtime extension that can discard doc
// comments from parsed source before the analysis layer reads them.
type CommentStripper struct {
	// Extension is the name the runtime reports for the loaded extension.
	Extension string
	// Enablers must all be truthy for the extension to be live.
	Enablers []string
	// SaveComments is the setting that, when explicitly off, strips comments.
	SaveComments string
}

// CommentStrippers lists every known extension/setting combination that
// strips comments. Adding a new one is a table change only.
var CommentStrippers = []CommentStripper{
	{
		Extension:    "Zend OPcache",
		Enablers:     []string{"opcache.enable", "opcache.enable_cli"},
		SaveComments: "opcache.save_comments",
	},
	{
		Extension:    "Zend Optimizer+",
		SaveComments: "zend_optimizerplus.save_comments",
	},
}

// Strips reports whether this extension is loaded in env and configured to
// drop comments.
func (cs CommentStripper) Strips(env Environment) bool {
	if !env.ExtensionLoaded(cs.Extension) {
		return false
	}
	for _, key := range cs.Enablers {
		v, _ := env.LookupSetting(key)
		if !truthy(v) {
			return false
		}
	}
	v, ok := env.LookupSetting(cs.SaveComments)
	return ok && !truthy(v)
}

// checkCommentStripping fails on the first stripper active in env. It
// returns the extensions that were loaded and therefore inspected.
func checkCommentStripping(env Environment, table []CommentStripper) ([]string, error) {
	var inspected []string
	for _, cs := range table {
		if !env.ExtensionLoaded(cs.Extension) {
			continue
		}
		inspected = append(inspected, cs.Extension)
		if cs.Strips(env) {
			return inspected, errors.NewConfigError(errors.ErrCodeUnsafeRuntime,
				fmt.Sprintf("%s is configured to strip comments from parsed source", cs.Extension)).
				WithComponent("bootstrap").
				WithContext("extension", cs.Extension).
				WithContext("setting", cs.SaveComments).
				WithSuggestion(fmt.Sprintf("please enable %s in the runtime configuration", cs.SaveComments))
		}
	}
	return inspected, nil
}
