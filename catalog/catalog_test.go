package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steindb/stein/common"
	"github.com/steindb/stein/storage"
)

func TestCatalogRegisterAndResolve(t *testing.T) {
	cat := NewCatalog()
	table := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "name", Type: common.TextType},
	))

	require.NoError(t, cat.Register("bars", table))

	source, err := cat.Resolve("bars")
	require.NoError(t, err)
	assert.Equal(t, table.Schema(), source.Schema())

	_, err = cat.Resolve("ghosts")
	require.Error(t, err)
	code, ok := common.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, common.NoSuchTable, code)
}

func TestCatalogDuplicateRegistration(t *testing.T) {
	cat := NewCatalog()
	table := storage.NewMemTable(storage.NewSchema(
		storage.Column{Name: "name", Type: common.TextType},
	))

	require.NoError(t, cat.Register("bars", table))
	err := cat.Register("bars", table)
	require.Error(t, err)
	code, ok := common.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, common.DuplicateTable, code)
}

func TestCatalogTablesSorted(t *testing.T) {
	cat := NewCatalog()
	schema := storage.NewSchema(storage.Column{Name: "x", Type: common.IntType})
	for _, name := range []string{"sells", "bars", "likes"} {
		require.NoError(t, cat.Register(name, storage.NewMemTable(schema)))
	}
	assert.Equal(t, []string{"bars", "likes", "sells"}, cat.Tables())
}
