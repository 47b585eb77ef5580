package humandetect

import (
	"errors"
	"fmt"

	"github.com/swdee/go-humandetect/postprocess"
	"github.com/swdee/go-humandetect/preprocess"
	"github.com/swdee/go-humandetect/render"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"
)

// ErrInference is returned when a frame can not be run through the network,
// either because the frame is malformed or the network output is not in the
// expected Darknet layout
var ErrInference = errors.New("inference failure")

// Network is a loaded object detection model.  *gocv.Net satisfies it.
type Network interface {
	// SetInput sets the input blob for the next forward pass
	SetInput(blob gocv.Mat, name string)
	// ForwardLayers runs inference and returns the output of each named layer
	ForwardLayers(outBlobNames []string) []gocv.Mat
}

// DetectorParams groups the pre processing, post processing and rendering
// settings of a Detector
type DetectorParams struct {
	Blob  preprocess.BlobParams
	YOLO  postprocess.YOLOv4Params
	Style render.BoxStyle
}

// DefaultDetectorParams returns the settings for finding people with a COCO
// trained YOLOv4 model and drawing them as 2 pixel yellow boxes
func DefaultDetectorParams() DetectorParams {
	return DetectorParams{
		Blob:  preprocess.DarknetBlobParams(),
		YOLO:  postprocess.YOLOv4PersonParams(),
		Style: render.DefaultBoxStyle(),
	}
}

// Detector finds people in frames and draws boxes around them.  A Detector
// is not safe for concurrent use since the network holds the input blob
// between SetInput and ForwardLayers.
type Detector struct {
	net          Network
	outputLayers []string
	classNames   []string
	params       DetectorParams
	process      *postprocess.YOLOv4
}

// NewDetector returns a Detector reading detections from the given output
// layers of net.  classNames are used for labels when enabled.
func NewDetector(net Network, outputLayers []string, classNames []string,
	params DetectorParams) *Detector {

	return &Detector{
		net:          net,
		outputLayers: outputLayers,
		classNames:   classNames,
		params:       params,
		process:      postprocess.NewYOLOv4(params.YOLO),
	}
}

// Params returns the settings the Detector was created with
func (d *Detector) Params() DetectorParams {
	return d.params
}

// DetectObjects runs inference on the frame and returns the detections left
// after thresholding and NMS.  The frame is not modified.
func (d *Detector) DetectObjects(frame gocv.Mat) (results []postprocess.DetectResult, err error) {

	if frame.Empty() {
		return nil, fmt.Errorf("%w: empty frame", ErrInference)
	}

	if frame.Channels() != 3 {
		return nil, fmt.Errorf("%w: frame has %d channels, expected 3", ErrInference, frame.Channels())
	}

	if len(d.outputLayers) == 0 {
		return nil, fmt.Errorf("%w: no output layers", ErrInference)
	}

	blob := d.params.Blob.Blob(frame)
	defer blob.Close()

	d.net.SetInput(blob, "")
	outputs := d.net.ForwardLayers(d.outputLayers)

	defer func() {
		for _, out := range outputs {
			err = multierr.Append(err, out.Close())
		}
	}()

	if len(outputs) != len(d.outputLayers) {
		return nil, fmt.Errorf("%w: network returned %d outputs for %d layers",
			ErrInference, len(outputs), len(d.outputLayers))
	}

	var raw []postprocess.RawDetection

	for i, out := range outputs {

		layerRaw, err := decodeLayer(out)

		if err != nil {
			return nil, fmt.Errorf("%w: output layer %s: %v", ErrInference, d.outputLayers[i], err)
		}

		raw = append(raw, layerRaw...)
	}

	return d.process.DetectObjects(raw, frame.Cols(), frame.Rows()), nil
}

// Detect runs DetectObjects on the frame then draws a box around every
// detection on the frame itself
func (d *Detector) Detect(frame *gocv.Mat) ([]postprocess.DetectResult, error) {

	results, err := d.DetectObjects(*frame)

	if err != nil {
		return nil, err
	}

	render.DetectionBoxes(frame, results, d.classNames, d.params.Style)

	return results, nil
}

// decodeLayer reads the 2D float output of a Darknet YOLO layer
func decodeLayer(out gocv.Mat) ([]postprocess.RawDetection, error) {

	if out.Empty() {
		return nil, errors.New("empty output")
	}

	if out.Type() != gocv.MatTypeCV32F || len(out.Size()) != 2 {
		return nil, fmt.Errorf("unexpected output type %v with shape %v", out.Type(), out.Size())
	}

	data, err := out.DataPtrFloat32()

	if err != nil {
		return nil, err
	}

	return postprocess.DecodeOutput(data, out.Rows(), out.Cols())
}
