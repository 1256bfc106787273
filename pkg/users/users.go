// Package users resolves the accounts whose environments get provisioned.
package users

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	DefaultPasswdPath = "/etc/passwd"

	// Range of uids handed out to human accounts on Debian
	MinRealUID = 1000
	MaxRealUID = 59999
)

var nonLoginShells = []string{"/nologin", "/false", "/sync", "/halt", "/shutdown"}

// Entry is one line of the passwd database
type Entry struct {
	Login string
	UID   int
	GID   int
	Home  string
	Shell string
}

// Context returns the entry as a UserContext
func (e Entry) Context() types.UserContext {
	return types.UserContext{Login: e.Login, Home: e.Home, UID: e.UID, GID: e.GID}
}

// Real reports whether the entry is a human account with a login shell
func (e Entry) Real() bool {
	if e.UID < MinRealUID || e.UID > MaxRealUID {
		return false
	}
	if e.Shell == "" {
		return false
	}
	for _, suffix := range nonLoginShells {
		if strings.HasSuffix(e.Shell, suffix) {
			return false
		}
	}
	return true
}

// Database reads accounts from a passwd file
type Database struct {
	fs     afero.Fs
	path   string
	logger zerolog.Logger
}

// New reads /etc/passwd from fs
func New(fs afero.Fs) *Database {
	return NewWithPath(fs, DefaultPasswdPath)
}

// NewWithPath reads the passwd file at path
func NewWithPath(fs afero.Fs, path string) *Database {
	return &Database{fs: fs, path: path, logger: logging.GetLogger("users")}
}

// Entries parses the passwd file. Malformed lines are skipped.
func (d *Database) Entries() ([]Entry, error) {
	f, err := d.fs.Open(d.path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrUserLookup, "failed to open %s", d.path).
			WithDetail("path", d.path)
	}
	defer func() { _ = f.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, ok := parseLine(line)
		if !ok {
			d.logger.Debug().Int("line", lineNo).Str("path", d.path).Msg("Skipping malformed passwd line")
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrUserLookup, "failed to read %s", d.path).
			WithDetail("path", d.path)
	}
	return entries, nil
}

// RealUsers returns the logins of human accounts, in file order
func (d *Database) RealUsers() ([]string, error) {
	entries, err := d.Entries()
	if err != nil {
		return nil, err
	}
	var logins []string
	for _, e := range entries {
		if e.Real() {
			logins = append(logins, e.Login)
		}
	}
	d.logger.Debug().Strs("users", logins).Msg("Resolved real users")
	return logins, nil
}

// Lookup resolves login to a UserContext
func (d *Database) Lookup(login string) (types.UserContext, error) {
	entries, err := d.Entries()
	if err != nil {
		return types.UserContext{}, err
	}
	for _, e := range entries {
		if e.Login == login {
			return e.Context(), nil
		}
	}
	return types.UserContext{}, errors.Newf(errors.ErrUserLookup, "unknown user %s", login).
		WithDetail("user", login)
}

// parseLine reads name:password:uid:gid:gecos:home:shell
func parseLine(line string) (Entry, bool) {
	fields := strings.Split(line, ":")
	if len(fields) != 7 || fields[0] == "" {
		return Entry{}, false
	}
	uid, err := strconv.Atoi(fields[2])
	if err != nil {
		return Entry{}, false
	}
	gid, err := strconv.Atoi(fields[3])
	if err != nil {
		return Entry{}, false
	}
	return Entry{
		Login: fields[0],
		UID:   uid,
		GID:   gid,
		Home:  fields[5],
		Shell: fields[6],
	}, true
}
