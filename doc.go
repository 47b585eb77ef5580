/*
go-humandetect finds people in video frames using a Darknet YOLOv4 model run
through the OpenCV DNN module via GoCV, and draws a yellow box around each
person found.

The model files (yolov4.weights, yolov4.cfg and coco.names) are downloaded
on first use with EnsureArtifacts, loaded with LoadModel and handed to a
Detector.  ProcessVideo runs the Detector over every frame of a video
source, optionally writing the annotated frames to a sink and showing them
in a window.

See the example/detect-humans program for a complete command line tool.
*/
package humandetect
