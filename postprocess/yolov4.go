package postprocess

import (
	"fmt"
)

// boxAttrs is the number of leading elements in each Darknet output row
// before the class scores: center x, center y, width, height, objectness
const boxAttrs = 5

// YOLOv4 defines the struct for Darknet YOLOv4 model inference post processing
type YOLOv4 struct {
	// Params are the Model configuration parameters
	Params YOLOv4Params
}

// YOLOv4Params defines the struct containing the YOLOv4 parameters to use
// for post processing operations
type YOLOv4Params struct {
	// BoxThreshold is the class score a detection must be strictly greater
	// than to be kept as a candidate
	BoxThreshold float32
	// NMSThreshold is the Non-Maximum Suppression threshold used for defining
	// the maximum allowed Intersection Over Union (IoU) between two
	// bounding boxes for both to be kept
	NMSThreshold float32
	// ClassID is the line number in the labels file of the single class
	// that is kept, all other classes are discarded
	ClassID int
	// ClipToFrame restricts result boxes to the frame dimensions.  When false
	// boxes may extend past the frame edges
	ClipToFrame bool
}

// YOLOv4PersonParams returns an instance of YOLOv4Params configured for
// detecting people with a Model trained on the COCO dataset:
// - Box Threshold: 0.1
// - NMS Threshold: 0.1
// - Class ID: 0 ("person" in coco.names)
// - Clip To Frame: false
func YOLOv4PersonParams() YOLOv4Params {
	return YOLOv4Params{
		BoxThreshold: 0.1,
		NMSThreshold: 0.1,
		ClassID:      0,
		ClipToFrame:  false,
	}
}

// NewYOLOv4 returns an instance of the YOLOv4 post processor
func NewYOLOv4(p YOLOv4Params) *YOLOv4 {
	return &YOLOv4{
		Params: p,
	}
}

// DecodeOutput splits the float data of a single output layer, laid out as
// rows of [cx, cy, w, h, objectness, score_0 ... score_n], into RawDetections
func DecodeOutput(data []float32, rows, cols int) ([]RawDetection, error) {

	if cols <= boxAttrs {
		return nil, fmt.Errorf("output layer has %d columns, need more than %d", cols, boxAttrs)
	}

	if rows < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("output layer has %d values, expected %dx%d", len(data), rows, cols)
	}

	raw := make([]RawDetection, rows)

	for i := 0; i < rows; i++ {
		row := data[i*cols : (i+1)*cols]

		raw[i] = RawDetection{
			CenterX:    row[0],
			CenterY:    row[1],
			Width:      row[2],
			Height:     row[3],
			Objectness: row[4],
			Scores:     row[boxAttrs:],
		}
	}

	return raw, nil
}

// ScaleBox converts the normalized center and size of a RawDetection into a
// pixel space box for a frame of the given dimensions.  Each step truncates
// toward zero.
func ScaleBox(raw RawDetection, frameWidth, frameHeight int) BoxRect {

	centerX := int(raw.CenterX * float32(frameWidth))
	centerY := int(raw.CenterY * float32(frameHeight))
	w := int(raw.Width * float32(frameWidth))
	h := int(raw.Height * float32(frameHeight))

	return BoxRect{
		X:      int(float32(centerX) - float32(w)/2),
		Y:      int(float32(centerY) - float32(h)/2),
		Width:  w,
		Height: h,
	}
}

// Candidates filters the raw detections down to those whose highest scoring
// class is the configured ClassID with a score above BoxThreshold, and
// rescales them to pixel space
func (y *YOLOv4) Candidates(raw []RawDetection, frameWidth, frameHeight int) []DetectResult {

	group := make([]DetectResult, 0)

	for _, r := range raw {

		classID, score := ArgMax(r.Scores)

		if classID != y.Params.ClassID || score <= y.Params.BoxThreshold {
			continue
		}

		group = append(group, DetectResult{
			Class:       classID,
			Box:         ScaleBox(r, frameWidth, frameHeight),
			Probability: score,
		})
	}

	return group
}

// DetectObjects takes the raw detections of all output layers and runs the
// candidate filtering and NMS process then returns the results
func (y *YOLOv4) DetectObjects(raw []RawDetection, frameWidth, frameHeight int) []DetectResult {

	candidates := y.Candidates(raw, frameWidth, frameHeight)

	if len(candidates) == 0 {
		// no object detected
		return nil
	}

	keep := NMS(candidates, y.Params.BoxThreshold, y.Params.NMSThreshold)

	group := make([]DetectResult, 0, len(keep))

	for _, n := range keep {
		result := candidates[n]

		if y.Params.ClipToFrame {
			result.Box = result.Box.Clip(frameWidth, frameHeight)

			if result.Box.Area() == 0 {
				continue
			}
		}

		group = append(group, result)
	}

	return group
}
