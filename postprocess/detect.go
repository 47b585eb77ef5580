package postprocess

import (
	"image"
)

// RawDetection is a single candidate region decoded from a Darknet YOLO
// output layer before any thresholding is applied
type RawDetection struct {
	// CenterX and CenterY are the normalized coordinates of the center of the
	// bounding box, as a fraction of the image width and height
	CenterX float32
	CenterY float32
	// Width and Height are the normalized dimensions of the bounding box
	Width  float32
	Height float32
	// Objectness is the score the network assigned to there being any object
	// at all in the region
	Objectness float32
	// Scores are the per class confidence scores in label file order
	Scores []float32
}

// BoxRect are the pixel space dimensions of the bounding box of a detected
// object
type BoxRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect returns the box as an image.Rectangle for drawing with gocv
func (b BoxRect) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Area returns the area of the box in pixels
func (b BoxRect) Area() int {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// Intersection returns the overlapping region of two boxes
func (b BoxRect) Intersection(o BoxRect) BoxRect {
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)

	return BoxRect{
		X:      x1,
		Y:      y1,
		Width:  max(0, x2-x1),
		Height: max(0, y2-y1),
	}
}

// IoU works out the Intersection over Union value of two boxes
func (b BoxRect) IoU(o BoxRect) float32 {

	inter := b.Intersection(o).Area()
	union := b.Area() + o.Area() - inter

	if union <= 0 {
		return 0.0
	}

	return float32(inter) / float32(union)
}

// Clip restricts the box to lie within an image of the given width and height
func (b BoxRect) Clip(width, height int) BoxRect {
	return b.Intersection(BoxRect{X: 0, Y: 0, Width: width, Height: height})
}

// DetectResult defines the attributes of a single object detected
type DetectResult struct {
	// Class is the line number in the labels file the Model was trained on
	// defining the Class of the detected object
	Class int `json:"class"`
	// Box are the bounding box dimensions of the object location
	Box BoxRect `json:"box"`
	// Probability is the confidence score of the object detected
	Probability float32 `json:"confidence"`
}
