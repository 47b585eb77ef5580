package preprocess

import (
	"image"

	"gocv.io/x/gocv"
)

// BlobParams defines how a video frame is converted into the 4D input
// tensor (blob) fed to the network
type BlobParams struct {
	// Size is the width and height the frame is resized to
	Size image.Point
	// ScaleFactor multiplies every pixel value
	ScaleFactor float64
	// Mean is subtracted from each channel before scaling
	Mean gocv.Scalar
	// SwapRB swaps the first and last channels, converting BGR frames as read
	// by OpenCV to the RGB order the network was trained on
	SwapRB bool
	// Crop center crops the frame after resizing instead of stretching it
	Crop bool
}

// DarknetBlobParams returns the blob parameters for Darknet YOLOv4 models,
// a 416x416 stretched resize with pixel values scaled to [0,1] and channels
// swapped to RGB
func DarknetBlobParams() BlobParams {
	return BlobParams{
		Size:        image.Pt(416, 416),
		ScaleFactor: 1.0 / 255.0,
		Mean:        gocv.NewScalar(0, 0, 0, 0),
		SwapRB:      true,
		Crop:        false,
	}
}

// Blob converts the frame into a network input blob.  The caller owns the
// returned Mat and must Close it.
func (p BlobParams) Blob(frame gocv.Mat) gocv.Mat {
	return gocv.BlobFromImage(frame, p.ScaleFactor, p.Size, p.Mean, p.SwapRB, p.Crop)
}
