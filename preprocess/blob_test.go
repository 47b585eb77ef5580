package preprocess

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestDarknetBlob(t *testing.T) {

	tests := []struct {
		srcWidth  int
		srcHeight int
	}{
		{1280, 720},
		{416, 416},
		{320, 480},
	}

	for _, tc := range tests {
		// solid BGR frame of blue=10, green=20, red=30
		img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0),
			tc.srcHeight, tc.srcWidth, gocv.MatTypeCV8UC3)

		blob := DarknetBlobParams().Blob(img)

		require.Equal(t, []int{1, 3, 416, 416}, blob.Size(),
			"blob shape for src %dx%d", tc.srcWidth, tc.srcHeight)

		data, err := blob.DataPtrFloat32()
		require.NoError(t, err)

		plane := 416 * 416

		// channels are swapped to RGB and scaled to [0,1]
		require.InDelta(t, 30.0/255.0, data[0], 1e-4)
		require.InDelta(t, 20.0/255.0, data[plane], 1e-4)
		require.InDelta(t, 10.0/255.0, data[2*plane], 1e-4)

		img.Close()
		blob.Close()
	}
}
