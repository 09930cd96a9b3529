// Package pkg holds project metadata and the well-known filesystem locations
// shared by the command-line tools.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version embedded at build time from the VERSION
// file, without surrounding whitespace.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command identifier. It names the configuration
	// and cache directories and prefixes environment variables.
	Name = "symscope"
	// Description is a short summary used in help output.
	Description = "Scope substitution and evaluation for math expressions"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
