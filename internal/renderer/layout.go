package renderer

import "image/color"

// Layout metrics at the reference width of 1080px; Renderer scales them to
// the actual frame width.
const (
	referenceWidth = 1080.0

	padTop    = 350.0
	padSide   = 120.0
	padBottom = 80.0

	headerGap       = 32.0
	questionSize    = 68.0
	questionLeading = 1.15

	badgeDiameter = 140.0
	badgeBorder   = 6.0
	badgeSize     = 48.0
	badgeCaption  = 14.0
	badgeCapInset = 14.0

	rowGap       = 18.0
	rowRadius    = 16.0
	rowPadX      = 20.0
	rowPadY      = 18.0
	rowInnerGap  = 16.0
	optionSize   = 60.0
	optionLead   = 1.3
	labelBox     = 34.0
	labelRadius  = 10.0
	labelBorder  = 2.0
	labelTextPx  = 20.0
	rowBorderPx  = 1.0
	bannerMargin = 32.0

	bannerTitleSize  = 20.0
	bannerDot        = 12.0
	bannerDotGap     = 10.0
	bannerAnswerSize = 22.0
	bannerPillPadX   = 14.0
	bannerPillPadY   = 8.0
	bannerPillRadius = 12.0
	bannerNoteSize   = 18.0
	bannerNoteAlpha  = 0.75
)

var (
	ink          = color.NRGBA{R: 0x0f, G: 0x17, B: 0x2a, A: 0xff}
	neutralFill  = color.NRGBA{R: 255, G: 255, B: 255, A: 20}
	rowBorder    = color.NRGBA{R: 255, G: 255, B: 255, A: 20}
	labelOutline = color.NRGBA{R: 255, G: 255, B: 255, A: 102}
	labelShade   = color.NRGBA{A: 38}
	badgeFill    = color.NRGBA{A: 89}
	mutedText    = color.NRGBA{R: 255, G: 255, B: 255, A: 140}
	mutedDot     = color.NRGBA{R: 255, G: 255, B: 255, A: 89}
)

// vignette spots: center (fraction of frame), radius (fraction of the
// larger side) and darkness at the center.
var vignette = []struct {
	cx, cy, r, alpha float64
}{
	{0.2, 0.2, 0.30, 0.35},
	{0.8, 0.2, 0.35, 0.25},
	{0.5, 0.8, 0.40, 0.35},
}
