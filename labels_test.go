package humandetect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadLabels(t *testing.T) {

	file := filepath.Join(t.TempDir(), "coco.names")
	require.NoError(t, os.WriteFile(file, []byte("person\nbicycle \r\ncar\n\n"), 0644))

	labels, err := LoadLabels(file)
	require.NoError(t, err)
	require.Equal(t, []string{"person", "bicycle", "car"}, labels)

	idx, err := ClassIndex(labels, "car")
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	_, err = ClassIndex(labels, "dog")
	require.Error(t, err)

	_, err = LoadLabels(filepath.Join(t.TempDir(), "missing.names"))
	require.Error(t, err)
}
