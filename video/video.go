// Package video wraps the GoCV video capture, writer and window types as the
// frame sources and sinks used by humandetect.ProcessVideo
package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

// CodecMJPG is the FourCC of the Motion JPEG codec annotated video is
// written with
const CodecMJPG = "MJPG"

// FileSource reads frames from a video file.  The stream properties are read
// once when the file is opened.
type FileSource struct {
	capture    *gocv.VideoCapture
	fps        float64
	width      int
	height     int
	frameCount int
}

// OpenFile opens the video file for reading
func OpenFile(path string) (*FileSource, error) {

	capture, err := gocv.VideoCaptureFile(path)

	if err != nil {
		if capture != nil {
			capture.Close()
		}
		return nil, fmt.Errorf("error opening video %s: %w", path, err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("error opening video %s: no decoder available", path)
	}

	return &FileSource{
		capture:    capture,
		fps:        capture.Get(gocv.VideoCaptureFPS),
		width:      int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:     int(capture.Get(gocv.VideoCaptureFrameHeight)),
		frameCount: int(capture.Get(gocv.VideoCaptureFrameCount)),
	}, nil
}

// Read decodes the next frame, returning false after the last frame
func (s *FileSource) Read(frame *gocv.Mat) bool {
	return s.capture.Read(frame)
}

// FPS returns the frame rate of the video
func (s *FileSource) FPS() float64 {
	return s.fps
}

// Width returns the frame width in pixels
func (s *FileSource) Width() int {
	return s.width
}

// Height returns the frame height in pixels
func (s *FileSource) Height() int {
	return s.height
}

// FrameCount returns the number of frames the container reports, which may
// be an estimate
func (s *FileSource) FrameCount() int {
	return s.frameCount
}

// Close releases the decoder
func (s *FileSource) Close() error {
	return s.capture.Close()
}

// FileSink writes frames to a Motion JPEG video file
type FileSink struct {
	writer *gocv.VideoWriter
}

// CreateFile creates the output video with the given frame rate and frame
// dimensions
func CreateFile(path string, fps float64, width, height int) (*FileSink, error) {

	writer, err := gocv.VideoWriterFile(path, CodecMJPG, fps, width, height, true)

	if err != nil {
		if writer != nil {
			writer.Close()
		}
		return nil, fmt.Errorf("error creating video %s: %w", path, err)
	}

	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("error creating video %s: no encoder available", path)
	}

	return &FileSink{writer: writer}, nil
}

// Write appends the frame to the video
func (s *FileSink) Write(frame gocv.Mat) error {
	return s.writer.Write(frame)
}

// Close flushes and closes the video file
func (s *FileSink) Close() error {
	return s.writer.Close()
}

// Window shows frames in a desktop window
type Window struct {
	window *gocv.Window
}

// NewWindow opens a window with the given title
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

// Show displays the frame and waits 1ms for a key press, returning true when
// 'q' was pressed
func (w *Window) Show(frame gocv.Mat) bool {
	w.window.IMShow(frame)
	return w.window.WaitKey(1) == 'q'
}

// Close closes the window
func (w *Window) Close() error {
	return w.window.Close()
}
