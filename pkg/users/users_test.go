package users_test

import (
	"testing"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/testutil"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/arthur-debert/workbench/pkg/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passwd = `root:x:0:0:root:/root:/bin/bash
daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin
# local accounts
alice:x:1000:1000:Alice,,,:/home/alice:/bin/bash
svc:x:1001:1001::/home/svc:/usr/sbin/nologin
broken line
bob:x:1002:100:Bob:/home/bob:/usr/bin/zsh
nobody:x:65534:65534:nobody:/nonexistent:/usr/sbin/nologin
ghost:x:1003:1003::/home/ghost:/bin/false
`

func newDB(t *testing.T) *users.Database {
	t.Helper()
	fs := testutil.NewMemFS()
	testutil.WriteFile(t, fs, users.DefaultPasswdPath, passwd)
	return users.New(fs)
}

func TestRealUsers(t *testing.T) {
	logins, err := newDB(t).RealUsers()

	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, logins)
}

func TestEntries_SkipsMalformedLines(t *testing.T) {
	entries, err := newDB(t).Entries()

	require.NoError(t, err)
	assert.Len(t, entries, 7)
}

func TestLookup(t *testing.T) {
	u, err := newDB(t).Lookup("bob")

	require.NoError(t, err)
	assert.Equal(t, types.UserContext{Login: "bob", Home: "/home/bob", UID: 1002, GID: 100}, u)
}

func TestLookup_UnknownUser(t *testing.T) {
	_, err := newDB(t).Lookup("mallory")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserLookup))
	assert.Equal(t, "mallory", errors.GetErrorDetails(err)["user"])
}

func TestMissingPasswdFile(t *testing.T) {
	_, err := users.New(testutil.NewMemFS()).RealUsers()

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserLookup))
}

func TestEntry_Real(t *testing.T) {
	tests := []struct {
		name  string
		entry users.Entry
		want  bool
	}{
		{"human with bash", users.Entry{UID: 1000, Shell: "/bin/bash"}, true},
		{"upper bound", users.Entry{UID: 59999, Shell: "/bin/sh"}, true},
		{"system account", users.Entry{UID: 999, Shell: "/bin/bash"}, false},
		{"nobody", users.Entry{UID: 65534, Shell: "/bin/bash"}, false},
		{"nologin", users.Entry{UID: 1500, Shell: "/usr/sbin/nologin"}, false},
		{"false", users.Entry{UID: 1500, Shell: "/bin/false"}, false},
		{"no shell", users.Entry{UID: 1500}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Real())
		})
	}
}
