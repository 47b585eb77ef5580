package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/swdee/go-humandetect"
	"github.com/swdee/go-humandetect/video"
	"go.uber.org/multierr"
)

// options are the parsed command line flags
type options struct {
	input     string
	output    string
	configDir string
	display   bool
	className string
	conf      float64
	nms       float64
	clip      bool
	labels    bool
	jsonFile  string
}

func main() {
	parser := argparse.NewParser("detect-humans", "Detects people in a video file. Optionally writes the video with yellow boxes around them")
	input := parser.String("i", "input", &argparse.Options{Help: "Path to input video file", Required: true})
	output := parser.String("o", "output", &argparse.Options{Help: "Path to output video file (optional)"})
	configDir := parser.String("c", "config", &argparse.Options{Help: "Folder with the YOLOv4 model files, downloaded when missing", Default: "."})
	display := parser.Flag("d", "display", &argparse.Options{Help: "Display the video as it is parsed, press q to stop"})
	className := parser.String("", "class", &argparse.Options{Help: "Class name from coco.names to detect", Default: "person"})
	conf := parser.Float("", "conf", &argparse.Options{Help: "Confidence a detection must exceed", Default: 0.1})
	nms := parser.Float("", "nms", &argparse.Options{Help: "Maximum IoU between two kept boxes", Default: 0.1})
	clip := parser.Flag("", "clip", &argparse.Options{Help: "Clip boxes to the frame edges"})
	labels := parser.Flag("", "labels", &argparse.Options{Help: "Draw class name and confidence above each box"})
	jsonFile := parser.String("j", "json", &argparse.Options{Help: "Write the detections of every frame to this JSON file"})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	// stop between frames on ctrl-c
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, logger, options{
		input:     *input,
		output:    *output,
		configDir: *configDir,
		display:   *display,
		className: *className,
		conf:      *conf,
		nms:       *nms,
		clip:      *clip,
		labels:    *labels,
		jsonFile:  *jsonFile,
	})

	if errors.Is(err, context.Canceled) {
		logger.Warnf("Interrupted")
	} else if err != nil {
		logger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}

	logger.Infof("Done")
}

// run ensures the model files exist, loads the model and detects people in
// every frame of the input video
func run(ctx context.Context, log logs.Log, opts options) (err error) {

	paths, err := humandetect.EnsureArtifacts(ctx, log, opts.configDir, humandetect.YOLOv4Artifacts())

	if err != nil {
		return err
	}

	model, err := humandetect.LoadModel(log, paths)

	if err != nil {
		return err
	}

	defer func() { err = multierr.Append(err, model.Close()) }()

	classID, err := humandetect.ClassIndex(model.Labels, opts.className)

	if err != nil {
		return err
	}

	params := humandetect.DefaultDetectorParams()
	params.YOLO.ClassID = classID
	params.YOLO.BoxThreshold = float32(opts.conf)
	params.YOLO.NMSThreshold = float32(opts.nms)
	params.YOLO.ClipToFrame = opts.clip
	params.Style.Labels = opts.labels

	det := humandetect.NewDetector(&model.Net, model.OutputLayers, model.Labels, params)

	src, err := video.OpenFile(opts.input)

	if err != nil {
		return err
	}

	defer func() { err = multierr.Append(err, src.Close()) }()

	log.Infof("Video %s: %dx%d at %.2f fps, %d frames", opts.input,
		src.Width(), src.Height(), src.FPS(), src.FrameCount())

	procOpts := humandetect.ProcessOptions{
		TotalFrames: src.FrameCount(),
		Progress:    true,
		Record:      opts.jsonFile != "",
	}

	if opts.output != "" {
		var sink *video.FileSink
		sink, err = video.CreateFile(opts.output, src.FPS(), src.Width(), src.Height())

		if err != nil {
			return err
		}

		defer func() { err = multierr.Append(err, sink.Close()) }()

		procOpts.Sink = sink
	}

	if opts.display {
		window := video.NewWindow("video")
		defer func() { err = multierr.Append(err, window.Close()) }()

		procOpts.Display = window
	}

	summary, err := humandetect.ProcessVideo(ctx, log, det, src, procOpts)

	if opts.jsonFile != "" && summary != nil {
		if werr := writeJSON(opts.jsonFile, model.Labels, summary); werr != nil {
			return multierr.Append(err, werr)
		}
	}

	return err
}

// writeJSON saves the recorded detections
func writeJSON(file string, classes []string, summary *humandetect.ProcessSummary) error {

	f, err := os.Create(file)

	if err != nil {
		return fmt.Errorf("error creating %s: %w", file, err)
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")

	err = encoder.Encode(struct {
		Classes []string `json:"classes"`
		*humandetect.ProcessSummary
	}{
		Classes:        classes,
		ProcessSummary: summary,
	})

	return multierr.Append(err, f.Close())
}
