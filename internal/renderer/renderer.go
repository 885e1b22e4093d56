// Package renderer rasterizes composed quiz frames into RGBA images.
package renderer

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"

	"github.com/ivlev/quiz2video/internal/compositor"
	"github.com/ivlev/quiz2video/internal/system"
)

// Backgrounds supplies background images already fitted to the frame size.
// A nil image with a nil error means there is nothing to draw.
type Backgrounds interface {
	Background(ctx context.Context, ref string, w, h int) (image.Image, error)
}

// Renderer draws frames at a fixed size. It caches font faces and is
// therefore not safe for concurrent use: give each worker its own.
type Renderer struct {
	Width  int
	Height int

	scale float64
	bg    Backgrounds
	faces *faceCache
}

func New(width, height int, bg Backgrounds) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		Width:  width,
		Height: height,
		scale:  float64(width) / referenceWidth,
		bg:     bg,
		faces:  faces,
	}, nil
}

func (r *Renderer) Close() {
	r.faces.Close()
}

// Render draws f into a pooled image. The caller owns the result and should
// hand it back with system.PutImage once it has been consumed.
func (r *Renderer) Render(ctx context.Context, f compositor.Frame) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := system.GetImage(image.Rect(0, 0, r.Width, r.Height))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(color.Black)
	dc.Clear()

	if err := r.drawBackground(ctx, dc, f.Background); err != nil {
		system.PutImage(img)
		return nil, err
	}
	r.drawOverlay(dc, f.Overlay)
	if f.Vignette {
		r.drawVignette(dc)
	}

	if f.ContentOpacity > 0 {
		r.drawHeader(dc, f)
		optionsBottom := r.drawBanner(dc, f)
		r.drawOptions(dc, f, optionsBottom)
	}

	return img, nil
}

func (r *Renderer) px(v float64) float64 {
	return v * r.scale
}

func (r *Renderer) drawBackground(ctx context.Context, dc *gg.Context, b compositor.Background) error {
	if b.Source == "" || r.bg == nil {
		return nil
	}
	bg, err := r.bg.Background(ctx, b.Source, r.Width, r.Height)
	if err != nil {
		return fmt.Errorf("background %s: %w", b.Source, err)
	}
	if bg == nil {
		return nil
	}
	dc.DrawImage(bg, 0, 0)

	if b.Brightness < 1 {
		dc.SetColor(withAlpha(color.Black, 1-b.Brightness))
		dc.DrawRectangle(0, 0, float64(r.Width), float64(r.Height))
		dc.Fill()
	}
	return nil
}

// drawOverlay lays the darkening spots behind the text, strongest at
// o.Alpha.
func (r *Renderer) drawOverlay(dc *gg.Context, o compositor.Overlay) {
	if o.Alpha <= 0 {
		return
	}
	w, h := float64(r.Width), float64(r.Height)
	side := max(w, h)
	for _, s := range vignette {
		cx, cy := s.cx*w, s.cy*h
		g := gg.NewRadialGradient(cx, cy, 0, cx, cy, s.r*side)
		g.AddColorStop(0, withAlpha(color.Black, min(s.alpha, o.Alpha)))
		g.AddColorStop(1, color.NRGBA{})
		dc.SetFillStyle(g)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
	}
}

// drawVignette darkens the frame edges.
func (r *Renderer) drawVignette(dc *gg.Context) {
	w, h := float64(r.Width), float64(r.Height)
	cx, cy := w/2, h/2
	g := gg.NewRadialGradient(cx, cy, min(w, h)*0.35, cx, cy, max(w, h)*0.75)
	g.AddColorStop(0, color.NRGBA{})
	g.AddColorStop(1, withAlpha(color.Black, 0.35))
	dc.SetFillStyle(g)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

func (r *Renderer) contentBox() (x, y, w float64) {
	return r.px(padSide), r.px(padTop), float64(r.Width) - 2*r.px(padSide)
}

func (r *Renderer) drawHeader(dc *gg.Context, f compositor.Frame) {
	x, y, w := r.contentBox()
	d := r.px(badgeDiameter)

	// question
	dc.SetFontFace(r.faces.face(true, r.px(questionSize)))
	dc.SetColor(withAlpha(f.Question.Color.RGBA, f.Question.Opacity))
	dc.DrawStringWrapped(f.Question.Value, x, y, 0, 0, w-d-r.px(headerGap), questionLeading, gg.AlignLeft)

	// countdown badge
	alpha := f.ContentOpacity
	cx, cy := x+w-d/2, y+d/2
	dc.SetColor(withAlpha(badgeFill, alpha))
	dc.DrawCircle(cx, cy, d/2)
	dc.Fill()

	dc.SetLineWidth(r.px(badgeBorder))
	dc.SetColor(withAlpha(f.Countdown.Border.RGBA, alpha))
	dc.DrawCircle(cx, cy, d/2-r.px(badgeBorder)/2)
	dc.Stroke()

	dc.SetColor(withAlpha(f.Question.Color.RGBA, alpha))
	dc.SetFontFace(r.faces.face(true, r.px(badgeSize)))
	dc.DrawStringAnchored(fmt.Sprint(f.Countdown.Remaining), cx, cy, 0.5, 0.5)

	dc.SetFontFace(r.faces.face(true, r.px(badgeCaption)))
	dc.DrawStringAnchored(strings.ToUpper(f.Countdown.Caption), cx, y+d-r.px(badgeCapInset), 0.5, 0)
}

// drawBanner draws the answer strip along the bottom edge and returns the
// y above which the option rows end.
func (r *Renderer) drawBanner(dc *gg.Context, f compositor.Frame) float64 {
	x, _, w := r.contentBox()
	b := f.Banner
	alpha := f.ContentOpacity

	height := r.px(bannerAnswerSize + 2*bannerPillPadY)
	bottom := float64(r.Height) - r.px(padBottom)
	cy := bottom - height/2

	text := color.Color(mutedText)
	dot := color.Color(mutedDot)
	if b.Revealed {
		text = b.Color.RGBA
		dot = b.Accent.RGBA
	}

	dc.SetColor(withAlpha(dot, alpha))
	dc.DrawCircle(x+r.px(bannerDot)/2, cy, r.px(bannerDot)/2)
	dc.Fill()

	dc.SetColor(withAlpha(text, alpha))
	dc.SetFontFace(r.faces.face(true, r.px(bannerTitleSize)))
	dc.DrawStringAnchored(strings.ToUpper(b.Title), x+r.px(bannerDot+bannerDotGap), cy, 0, 0.35)

	right := x + w
	switch {
	case b.Revealed && b.Label != "":
		dc.SetFontFace(r.faces.face(true, r.px(bannerAnswerSize)))
		answerW, _ := dc.MeasureString(b.Answer)
		labelW, _ := dc.MeasureString(b.Label)
		pillW := labelW + 2*r.px(bannerPillPadX)
		start := right - answerW - r.px(bannerDotGap) - pillW

		dc.SetColor(withAlpha(b.Accent.RGBA, alpha))
		dc.DrawRoundedRectangle(start, cy-height/2, pillW, height, r.px(bannerPillRadius))
		dc.Fill()

		dc.SetColor(withAlpha(ink, alpha))
		dc.DrawStringAnchored(b.Label, start+pillW/2, cy, 0.5, 0.35)

		dc.SetColor(withAlpha(text, alpha))
		dc.DrawStringAnchored(b.Answer, right, cy, 1, 0.35)
	case b.Caption != "":
		dc.SetColor(withAlpha(text, alpha*bannerNoteAlpha))
		dc.SetFontFace(r.faces.face(false, r.px(bannerNoteSize)))
		dc.DrawStringAnchored(b.Caption, right, cy, 1, 0.35)
	}

	return bottom - height - r.px(bannerMargin)
}

// drawOptions stacks the rows upward so that the last one ends at bottom.
func (r *Renderer) drawOptions(dc *gg.Context, f compositor.Frame, bottom float64) {
	x, _, w := r.contentBox()
	textX := x + r.px(rowPadX+labelBox+rowInnerGap)
	textW := w - r.px(2*rowPadX+labelBox+rowInnerGap)
	lineH := r.px(optionSize) * optionLead

	dc.SetFontFace(r.faces.face(true, r.px(optionSize)))
	heights := make([]float64, len(f.Options))
	total := 0.0
	for i, row := range f.Options {
		lines := max(1, len(dc.WordWrap(row.Text, textW)))
		heights[i] = max(float64(lines)*lineH, r.px(labelBox)) + 2*r.px(rowPadY)
		total += heights[i]
	}
	if n := len(f.Options); n > 1 {
		total += float64(n-1) * r.px(rowGap)
	}

	y := bottom - total
	for i, row := range f.Options {
		r.drawRow(dc, row, f.ContentOpacity, x, y, w, heights[i], textX, textW)
		y += heights[i] + r.px(rowGap)
	}
}

func (r *Renderer) drawRow(dc *gg.Context, row compositor.OptionRow, content, x, y, w, h, textX, textW float64) {
	alpha := content * row.Opacity
	if alpha <= 0 {
		return
	}

	var fill color.Color = neutralFill
	if row.Fill != nil {
		fill = row.Fill.RGBA
	}
	dc.SetColor(withAlpha(fill, alpha))
	dc.DrawRoundedRectangle(x, y, w, h, r.px(rowRadius))
	dc.Fill()

	dc.SetLineWidth(r.px(rowBorderPx))
	dc.SetColor(withAlpha(rowBorder, alpha))
	dc.DrawRoundedRectangle(x, y, w, h, r.px(rowRadius))
	dc.Stroke()

	// label box
	box := r.px(labelBox)
	bx, by := x+r.px(rowPadX), y+(h-box)/2
	labelColor := color.Color(row.TextColor.RGBA)
	if row.Highlighted {
		dc.SetColor(withAlpha(labelShade, alpha))
		dc.DrawRoundedRectangle(bx, by, box, box, r.px(labelRadius))
		dc.Fill()
		labelColor = ink
	} else {
		dc.SetLineWidth(r.px(labelBorder))
		dc.SetColor(withAlpha(labelOutline, alpha))
		dc.DrawRoundedRectangle(bx, by, box, box, r.px(labelRadius))
		dc.Stroke()
	}
	dc.SetFontFace(r.faces.face(true, r.px(labelTextPx)))
	dc.SetColor(withAlpha(labelColor, alpha))
	dc.DrawStringAnchored(row.Label, bx+box/2, by+box/2, 0.5, 0.35)

	dc.SetFontFace(r.faces.face(true, r.px(optionSize)))
	dc.SetColor(withAlpha(row.TextColor.RGBA, alpha*row.TextOpacity))
	dc.DrawStringWrapped(row.Text, textX, y+h/2, 0, 0.5, textW, optionLead, gg.AlignLeft)
}

// withAlpha scales the alpha of c by a, clamped to [0, 1].
func withAlpha(c color.Color, a float64) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a = max(0, min(1, a))
	n.A = uint8(float64(n.A)*a + 0.5)
	return n
}
