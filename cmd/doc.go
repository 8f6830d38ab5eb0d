// Package cmd provides the command-line interface for docforge.
//
// The root command owns process start-up: before any subcommand runs it loads
// configuration, prepares the runtime through the bootstrap package and hands
// the configured cache folder to it. Subcommands then read the resulting
// process facts.
//
// # Available Commands
//
//   - version: Show the installed version and build details
//   - env: Show the template directory, cache folder and runtime adjustments
//
// # Configuration Integration
//
// Commands respect configuration from multiple sources in order of precedence:
//
//  1. Command-line flags (highest priority)
//  2. Environment variables (DOCFORGE_*)
//  3. Configuration file (.docforge.yml)
//  4. Default values (lowest priority)
//
// Runtime settings can be given one per variable, with "." written as "_":
//
//	DOCFORGE_RUNTIME_SETTINGS_OPCACHE_SAVE_COMMENTS=1
//	DOCFORGE_RUNTIME_EXTENSIONS="Zend OPcache,Zend Optimizer+"
//
// Example .docforge.yml:
//
//	log:
//	  level: debug
//	cache:
//	  folder: /var/cache/docforge
//	runtime:
//	  extensions: ["Zend OPcache"]
//	  settings:
//	    opcache.enable: "1"
//	    opcache.enable_cli: "1"
//	    opcache.save_comments: "1"
package cmd
