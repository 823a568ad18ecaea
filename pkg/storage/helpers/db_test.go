package helpers

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleModel struct {
	ID         string `db:"id"`
	ChipConfig string
	Skipped    string `db:"-"`
	unexported string `db:"nope"`
}

func TestGetDBColumnName(t *testing.T) {
	typ := reflect.TypeOf(sampleModel{})

	name, err := GetDBColumnName(typ, "ID")
	require.NoError(t, err)
	assert.Equal(t, "id", name)

	// untagged fields fall back to snake case
	name, err = GetDBColumnName(typ, "ChipConfig")
	require.NoError(t, err)
	assert.Equal(t, "chip_config", name)

	_, err = GetDBColumnName(typ, "NoSuchField")
	assert.Error(t, err)
}

func TestGetColumns(t *testing.T) {
	columns, err := GetColumns(&sampleModel{})
	require.NoError(t, err)
	assert.Equal(t, []string{"`id`", "`chip_config`"}, columns)
}
