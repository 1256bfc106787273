package types

import "path/filepath"

// UserContext identifies the account whose environment is being provisioned
type UserContext struct {
	Login string `yaml:"login"`
	Home  string `yaml:"home"`
	UID   int    `yaml:"uid"`
	GID   int    `yaml:"gid"`
}

// HomePath joins elem onto the user's home directory
func (u UserContext) HomePath(elem ...string) string {
	return filepath.Join(append([]string{u.Home}, elem...)...)
}
