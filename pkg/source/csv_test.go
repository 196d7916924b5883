package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	reader, err := NewReader(zap.NewNop())
	require.NoError(t, err)

	path := writeTempCSV(t, "ItemID,ItemName,Price\n101,widget,19.99\n102,gadget,5\n")

	records, err := reader.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "101", records[0]["ItemID"])
	assert.Equal(t, "widget", records[0]["ItemName"])
	assert.Equal(t, "19.99", records[0]["Price"])
	assert.Equal(t, "102", records[1]["ItemID"])
}

func TestReadFileShortRows(t *testing.T) {
	reader, err := NewReader(zap.NewNop())
	require.NoError(t, err)

	path := writeTempCSV(t, "A,B,C\n1,2\n")

	records, err := reader.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "1", records[0]["A"])
	assert.Equal(t, "2", records[0]["B"])
	assert.Equal(t, "", records[0]["C"])
}

func TestReadFileMissing(t *testing.T) {
	reader, err := NewReader(zap.NewNop())
	require.NoError(t, err)

	_, err = reader.ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestReadFileEmpty(t *testing.T) {
	reader, err := NewReader(zap.NewNop())
	require.NoError(t, err)

	_, err = reader.ReadFile(writeTempCSV(t, ""))
	assert.Error(t, err)
}
