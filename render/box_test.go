package render

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swdee/go-humandetect/postprocess"
	"gocv.io/x/gocv"
)

// bgr reads the pixel at row, col of a 3 channel Mat
func bgr(img gocv.Mat, row, col int) []uint8 {
	v := img.GetVecbAt(row, col)
	return []uint8{v[0], v[1], v[2]}
}

// anyYellow checks if a yellow pixel exists between from and to inclusive,
// scanning the columns of row at when alongRow is set, otherwise the rows of
// column at
func anyYellow(img gocv.Mat, at, from, to int, alongRow bool) bool {
	for i := from; i <= to; i++ {
		row, col := at, i
		if !alongRow {
			row, col = i, at
		}
		v := img.GetVecbAt(row, col)
		if v[0] == 0 && v[1] == 255 && v[2] == 255 {
			return true
		}
	}
	return false
}

func TestDetectionBoxes(t *testing.T) {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 416, 416, gocv.MatTypeCV8UC3)
	defer img.Close()

	box := postprocess.BoxRect{X: 166, Y: 166, Width: 83, Height: 83}

	DetectionBoxes(&img, []postprocess.DetectResult{
		{Class: 0, Box: box, Probability: 0.9},
	}, []string{"person"}, DefaultBoxStyle())

	yellowBGR := []uint8{0, 255, 255}

	// top left corner and edges
	require.Equal(t, yellowBGR, bgr(img, 166, 166))
	require.Equal(t, yellowBGR, bgr(img, 166, 200))
	require.Equal(t, yellowBGR, bgr(img, 200, 166))

	// bottom and right edges
	require.True(t, anyYellow(img, 200, 247, 250, true), "right edge not drawn")
	require.True(t, anyYellow(img, 200, 247, 250, false), "bottom edge not drawn")

	// interior and exterior untouched
	require.Equal(t, []uint8{0, 0, 0}, bgr(img, 207, 207))
	require.Equal(t, []uint8{0, 0, 0}, bgr(img, 10, 10))
}

func TestDetectionBoxesOffCanvas(t *testing.T) {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer img.Close()

	style := DefaultBoxStyle()
	style.Labels = true

	// partially outside the frame, only the visible edges get drawn
	DetectionBoxes(&img, []postprocess.DetectResult{
		{Class: 3, Box: postprocess.BoxRect{X: -20, Y: 40, Width: 50, Height: 30}, Probability: 0.5},
	}, []string{"person"}, style)

	require.Equal(t, []uint8{0, 255, 255}, bgr(img, 40, 10))
	require.Equal(t, []uint8{0, 0, 0}, bgr(img, 55, 10))
}

func TestClassName(t *testing.T) {
	require.Equal(t, "person", className([]string{"person"}, 0))
	require.Equal(t, "class 4", className([]string{"person"}, 4))
}
