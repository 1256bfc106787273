// Package filesystem places workspace directories and dotfiles owned by
// the user they belong to.
//
// All access goes through afero, so tests run against a MemMapFs while the
// CLI uses the OS filesystem.
package filesystem
