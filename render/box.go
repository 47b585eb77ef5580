package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/swdee/go-humandetect/postprocess"
	"gocv.io/x/gocv"
)

// BoxStyle defines how detection boxes are drawn
type BoxStyle struct {
	// Color of the box outline
	Color color.RGBA
	// Thickness of the box outline in pixels
	Thickness int
	// Labels renders the class name and confidence above each box
	Labels bool
	// Font used for labels
	Font Font
}

// DefaultBoxStyle returns a 2 pixel yellow outline with no labels
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		Color:     Yellow,
		Thickness: 2,
		Labels:    false,
		Font:      DefaultFont(),
	}
}

// DetectionBoxes renders the bounding boxes around the objects detected.
// Boxes that extend past the image edges are drawn partially.
func DetectionBoxes(img *gocv.Mat, detectResults []postprocess.DetectResult,
	classNames []string, style BoxStyle) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0)

	for _, detResult := range detectResults {

		rect := detResult.Box.Rect()
		gocv.RectangleWithParams(img, rect, style.Color, style.Thickness, gocv.Line8, 0)

		if !style.Labels {
			continue
		}

		boxLabels = append(boxLabels, newBoxLabel(detResult, rect,
			className(classNames, detResult.Class), style))
	}

	// draw labels last so they sit on top of any overlapping box outlines
	for _, box := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			style.Font.Face, style.Font.Scale, style.Font.Color, style.Font.Thickness,
			style.Font.LineType, false)
	}
}

// boxLabel holds the precalculated position of a text label
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// newBoxLabel works out where the label of a detection is placed
func newBoxLabel(detResult postprocess.DetectResult, rect image.Rectangle,
	name string, style BoxStyle) boxLabel {

	font := style.Font

	text := fmt.Sprintf("%s %.2f", name, detResult.Probability)
	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	// Calculate the alignment of text label
	var centerX int

	switch font.Alignment {
	case Center:
		centerX = (rect.Min.X + rect.Max.X) / 2

	case Right:
		centerX = rect.Max.X - (textSize.X / 2) - font.RightPad + (style.Thickness / 2)

	case Left:
		fallthrough
	default:
		centerX = rect.Min.X + (textSize.X / 2) + font.LeftPad - (style.Thickness / 2)
	}

	return boxLabel{
		rect: image.Rect(centerX-textSize.X/2-font.LeftPad,
			rect.Min.Y-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, rect.Min.Y),
		clr:     style.Color,
		text:    text,
		textPos: image.Pt(centerX-textSize.X/2, rect.Min.Y-font.BottomPad),
	}
}

// className looks up the label for a class, falling back to the numeric id
// when the labels file is shorter than the class index
func className(classNames []string, class int) string {
	if class >= 0 && class < len(classNames) {
		return classNames[class]
	}
	return fmt.Sprintf("class %d", class)
}
