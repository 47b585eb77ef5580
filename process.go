package humandetect

import (
	"context"
	"fmt"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/pterm/pterm"
	"github.com/swdee/go-humandetect/postprocess"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Source supplies decoded video frames in order
type Source interface {
	// Read decodes the next frame into frame, returning false once there are
	// no more frames
	Read(frame *gocv.Mat) bool
}

// Sink receives annotated frames
type Sink interface {
	Write(frame gocv.Mat) error
}

// Display shows annotated frames interactively
type Display interface {
	// Show displays the frame and returns true when the viewer asked to quit
	Show(frame gocv.Mat) bool
}

// ProcessOptions configures the optional outputs of ProcessVideo
type ProcessOptions struct {
	// Sink when set is written every annotated frame
	Sink Sink
	// Display when set is shown every annotated frame
	Display Display
	// TotalFrames is the expected number of frames, used for the progress bar
	TotalFrames int
	// Progress renders a progress bar on stdout when TotalFrames is known
	Progress bool
	// Record keeps the detections of every frame in the returned summary
	Record bool
}

// FrameLabels are the detections found in a single frame
type FrameLabels struct {
	Frame   int                        `json:"frame"`
	Objects []postprocess.DetectResult `json:"objects"`
}

// ProcessSummary describes a completed run of ProcessVideo
type ProcessSummary struct {
	// Frames is the number of frames run through the detector
	Frames int `json:"frameCount"`
	// Detections is the total number of boxes drawn over all frames
	Detections int `json:"detections"`
	// Quit is set when the Display asked to stop early
	Quit bool `json:"-"`
	// Labels holds per frame detections when ProcessOptions.Record is set
	Labels []FrameLabels `json:"frames,omitempty"`
}

// ProcessVideo runs the detector over every frame of src, one frame at a
// time.  Cancelling ctx stops the loop between frames.  A frame that fails
// inference stops the loop and its error is returned with the frame number.
func ProcessVideo(ctx context.Context, log logs.Log, det *Detector, src Source,
	opts ProcessOptions) (*ProcessSummary, error) {

	summary := &ProcessSummary{}

	frame := gocv.NewMat()
	defer frame.Close()

	var bar *pterm.ProgressbarPrinter

	if opts.Progress && opts.TotalFrames > 0 {
		var err error
		bar, err = pterm.DefaultProgressbar.WithTotal(opts.TotalFrames).
			WithTitle("Frames parsed").Start()

		if err != nil {
			log.Warnf("Progress bar unavailable: %v", err)
			bar = nil
		}
	}

	defer func() {
		if bar != nil {
			bar.Stop()
		}
	}()

	// frameTimes are the detect and draw durations in milliseconds
	frameTimes := make([]float64, 0, max(opts.TotalFrames, 0))

	log.Infof("Detecting people...")

	for frameNum := 0; ; frameNum++ {

		if err := ctx.Err(); err != nil {
			logSummary(log, summary, frameTimes)
			return summary, err
		}

		if ok := src.Read(&frame); !ok {
			// reached last video frame
			break
		}

		if frame.Empty() {
			continue
		}

		start := time.Now()

		results, err := det.Detect(&frame)

		if err != nil {
			return summary, fmt.Errorf("frame %d: %w", frameNum, err)
		}

		frameTimes = append(frameTimes, float64(time.Since(start))/float64(time.Millisecond))

		summary.Frames++
		summary.Detections += len(results)

		if opts.Record {
			summary.Labels = append(summary.Labels, FrameLabels{
				Frame:   frameNum,
				Objects: results,
			})
		}

		if opts.Sink != nil {
			if err := opts.Sink.Write(frame); err != nil {
				return summary, fmt.Errorf("error writing frame %d: %w", frameNum, err)
			}
		}

		// the frame count reported by containers is an estimate
		if bar != nil && summary.Frames <= opts.TotalFrames {
			bar.Increment()
		}

		if opts.Display != nil && opts.Display.Show(frame) {
			summary.Quit = true
			break
		}
	}

	logSummary(log, summary, frameTimes)

	return summary, nil
}

// logSummary logs the frame and detection counts with the mean per frame
// processing time
func logSummary(log logs.Log, summary *ProcessSummary, frameTimes []float64) {

	if len(frameTimes) == 0 {
		log.Infof("Processed 0 frames")
		return
	}

	mean, std := stat.MeanStdDev(frameTimes, nil)

	log.Infof("Processed %d frames, %d detections, %.1fms (sd %.1fms) per frame",
		summary.Frames, summary.Detections, mean, std)
}
