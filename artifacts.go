package humandetect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cyclopcam/logs"
	getter "github.com/hashicorp/go-getter"
)

// Artifact is a single model file and the remote location it is fetched from
type Artifact struct {
	// Name is the file name on disk
	Name string
	// URL is where the file is downloaded from when missing
	URL string
}

// ArtifactSet are the three files needed to load a Darknet model
type ArtifactSet struct {
	// Weights is the binary weights file
	Weights Artifact
	// Config is the text network architecture file
	Config Artifact
	// Names is the newline delimited class names file
	Names Artifact
}

// ArtifactPaths are the local paths of an ArtifactSet once present on disk
type ArtifactPaths struct {
	Weights string
	Config  string
	Names   string
}

// YOLOv4Artifacts returns the COCO trained YOLOv4 model files published with
// the Darknet project
func YOLOv4Artifacts() ArtifactSet {
	return ArtifactSet{
		Weights: Artifact{
			Name: "yolov4.weights",
			URL:  "https://github.com/AlexeyAB/darknet/releases/download/darknet_yolo_v3_optimal/yolov4.weights",
		},
		Config: Artifact{
			Name: "yolov4.cfg",
			URL:  "https://raw.githubusercontent.com/AlexeyAB/darknet/master/cfg/yolov4.cfg",
		},
		Names: Artifact{
			Name: "coco.names",
			URL:  "https://raw.githubusercontent.com/AlexeyAB/darknet/master/data/coco.names",
		},
	}
}

// FetchError is returned when a missing artifact could not be downloaded
type FetchError struct {
	Artifact string
	URL      string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("error fetching %s from %s: %v", e.Artifact, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// EnsureArtifacts checks that every file of the set exists in dir and
// downloads any that are missing.  Files already present are left untouched.
func EnsureArtifacts(ctx context.Context, log logs.Log, dir string,
	set ArtifactSet) (ArtifactPaths, error) {

	if dir == "" {
		dir = "."
	}

	log.Infof("Checking model files in %v", dir)

	paths := ArtifactPaths{
		Weights: filepath.Join(dir, set.Weights.Name),
		Config:  filepath.Join(dir, set.Config.Name),
		Names:   filepath.Join(dir, set.Names.Name),
	}

	for _, a := range []Artifact{set.Weights, set.Config, set.Names} {

		target := filepath.Join(dir, a.Name)

		_, err := os.Stat(target)

		if err == nil {
			continue
		}

		if !errors.Is(err, os.ErrNotExist) {
			return ArtifactPaths{}, fmt.Errorf("error checking %s: %w", target, err)
		}

		log.Infof("Downloading %v to %v", a.URL, target)

		if err := fetchFile(ctx, a.URL, target); err != nil {
			return ArtifactPaths{}, &FetchError{Artifact: a.Name, URL: a.URL, Err: err}
		}
	}

	return paths, nil
}

// fetchFile downloads src into a temporary file beside target and renames
// it into place, so an interrupted download never leaves a partial artifact
func fetchFile(ctx context.Context, src, target string) error {

	tempFile := target + ".tmp"

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	// a stale partial download would otherwise be resumed
	if err := os.Remove(tempFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  tempFile,
		Mode: getter.ClientModeFile,
	}

	if err := client.Get(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, target)
}
