package humandetect

import (
	"context"
	"errors"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// fakeSource yields count copies of a black frame
type fakeSource struct {
	width, height int
	count         int
	read          int
}

func (s *fakeSource) Read(frame *gocv.Mat) bool {
	if s.read >= s.count {
		return false
	}
	s.read++

	img := blackFrame(s.width, s.height)
	img.CopyTo(frame)
	img.Close()

	return true
}

// fakeSink counts frames and remembers whether each carried a drawn box
type fakeSink struct {
	written []bool
}

func (s *fakeSink) Write(frame gocv.Mat) error {
	s.written = append(s.written, frame.GetVecbAt(166, 200)[1] == 255)
	return nil
}

// quitAfter asks to quit once it has shown n frames
type quitAfter struct {
	n     int
	shown int
}

func (d *quitAfter) Show(frame gocv.Mat) bool {
	d.shown++
	return d.shown >= d.n
}

func TestProcessVideo(t *testing.T) {

	net := newFakeNetwork(darknetRow(0.5, 0.5, 0.2, 0.2, 0, 0.9))
	det := NewDetector(net, []string{"yolo"}, []string{"person"}, DefaultDetectorParams())

	src := &fakeSource{width: 416, height: 416, count: 4}
	sink := &fakeSink{}

	summary, err := ProcessVideo(context.Background(), logs.NewTestingLog(t), det, src,
		ProcessOptions{Sink: sink, Record: true, TotalFrames: 4})
	require.NoError(t, err)

	require.Equal(t, 4, summary.Frames)
	require.Equal(t, 4, summary.Detections)
	require.False(t, summary.Quit)
	require.Equal(t, []bool{true, true, true, true}, sink.written)

	require.Len(t, summary.Labels, 4)
	require.Equal(t, 3, summary.Labels[3].Frame)
	require.Equal(t, 166, summary.Labels[3].Objects[0].Box.X)
}

func TestProcessVideoDisplayQuit(t *testing.T) {

	net := newFakeNetwork(darknetRow(0.5, 0.5, 0.2, 0.2, 0, 0.05))
	det := NewDetector(net, []string{"yolo"}, nil, DefaultDetectorParams())

	src := &fakeSource{width: 64, height: 48, count: 10}
	display := &quitAfter{n: 3}

	summary, err := ProcessVideo(context.Background(), logs.NewTestingLog(t), det, src,
		ProcessOptions{Display: display})
	require.NoError(t, err)

	require.True(t, summary.Quit)
	require.Equal(t, 3, summary.Frames)
	require.Equal(t, 3, src.read)
	require.Zero(t, summary.Detections)
	require.Nil(t, summary.Labels)
}

func TestProcessVideoCancelled(t *testing.T) {

	det := NewDetector(newFakeNetwork(), []string{"yolo"}, nil, DefaultDetectorParams())
	src := &fakeSource{width: 64, height: 48, count: 10}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := ProcessVideo(ctx, logs.NewTestingLog(t), det, src, ProcessOptions{})
	require.True(t, errors.Is(err, context.Canceled))
	require.Zero(t, summary.Frames)
	require.Zero(t, src.read)
}

func TestProcessVideoInferenceFailure(t *testing.T) {

	net := newFakeNetwork([]float32{0.5, 0.5, 0.1})
	net.cols = 3
	det := NewDetector(net, []string{"yolo"}, nil, DefaultDetectorParams())

	src := &fakeSource{width: 64, height: 48, count: 5}

	summary, err := ProcessVideo(context.Background(), logs.NewTestingLog(t), det, src, ProcessOptions{})
	require.True(t, errors.Is(err, ErrInference))
	require.Contains(t, err.Error(), "frame 0")
	require.Zero(t, summary.Frames)
	require.Equal(t, 1, src.read)
}
