package humandetect

import (
	"fmt"

	"github.com/cyclopcam/logs"
	"gocv.io/x/gocv"
)

// Model is a loaded Darknet network together with the class labels it was
// trained on and the names of the layers detections are read from
type Model struct {
	// Net is the OpenCV DNN network
	Net gocv.Net
	// Labels are the class names, indexed by class ID
	Labels []string
	// OutputLayers are the names of the unconnected output layers
	OutputLayers []string
}

// LoadModel reads the network and labels from the artifact files
func LoadModel(log logs.Log, paths ArtifactPaths) (*Model, error) {

	log.Infof("Loading model %v", paths.Weights)

	labels, err := LoadLabels(paths.Names)

	if err != nil {
		return nil, fmt.Errorf("error loading model labels: %w", err)
	}

	net := gocv.ReadNet(paths.Weights, paths.Config)

	if net.Empty() {
		return nil, fmt.Errorf("error reading network from %s and %s", paths.Weights, paths.Config)
	}

	m := &Model{
		Net:          net,
		Labels:       labels,
		OutputLayers: OutputLayerNames(&net),
	}

	log.Infof("Model loaded with %d classes, output layers %v", len(m.Labels), m.OutputLayers)

	return m, nil
}

// OutputLayerNames returns the names of the network's unconnected output
// layers, which hold the final detections
func OutputLayerNames(net *gocv.Net) []string {

	layerNames := net.GetLayerNames()

	var outputLayers []string

	// unconnected layer ids are 1 based
	for _, id := range net.GetUnconnectedOutLayers() {
		if id > 0 && id-1 < len(layerNames) {
			outputLayers = append(outputLayers, layerNames[id-1])
		}
	}

	return outputLayers
}

// Close frees the network
func (m *Model) Close() error {
	return m.Net.Close()
}
