package assets_test

import (
	"testing"

	"github.com/arthur-debert/workbench/pkg/assets"
	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedAssets(t *testing.T) {
	store := assets.New(testutil.NewMemFS(), "")

	for _, name := range assets.Names() {
		data, err := store.Read(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestOverrideDirectory(t *testing.T) {
	fs := testutil.NewMemFS()
	testutil.WriteFile(t, fs, "/etc/workbench/assets/bashrc", "# custom\n")
	store := assets.New(fs, "/etc/workbench/assets")

	data, err := store.Read(assets.Bashrc)
	require.NoError(t, err)
	assert.Equal(t, "# custom\n", string(data))

	data, err = store.Read(assets.BashAliases)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alias ll=")
}

func TestUnknownAsset(t *testing.T) {
	_, err := assets.New(testutil.NewMemFS(), "").Read("zshrc")

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}
