package scenario

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/sequencer"
)

// ErrCompositionNotFound is returned when a composition id is not registered.
var ErrCompositionNotFound = errors.New("composition not found")

const (
	SingleID   = "QuizVideo"
	CombinedID = "QuizAll"
	perQuizFmt = "Quiz%s"
)

// Composition is a named renderable unit: one quiz or all of them in order.
type Composition struct {
	ID     string
	FPS    int
	Width  int
	Height int

	Quizzes []quiz.Descriptor
	// Music is only set for the combined composition.
	Music       string
	MusicVolume float64
}

// Compositions lists every composition a deck exposes: QuizVideo (the first
// quiz), one Quiz<id> per quiz, and QuizAll. An empty deck still exposes an
// empty QuizAll.
func (d *Deck) Compositions() []Composition {
	base := Composition{FPS: d.FPS, Width: d.Width, Height: d.Height}

	var out []Composition
	if len(d.Quizzes) > 0 {
		c := base
		c.ID = SingleID
		c.Quizzes = d.Quizzes[:1]
		out = append(out, c)
	}
	for i := range d.Quizzes {
		c := base
		c.ID = fmt.Sprintf(perQuizFmt, d.Quizzes[i].ID)
		c.Quizzes = d.Quizzes[i : i+1]
		out = append(out, c)
	}

	all := base
	all.ID = CombinedID
	all.Quizzes = d.Quizzes
	all.Music = d.Music
	all.MusicVolume = d.MusicVolume
	return append(out, all)
}

// Composition looks up a composition by id.
func (d *Deck) Composition(id string) (Composition, error) {
	for _, c := range d.Compositions() {
		if c.ID == id {
			return c, nil
		}
	}
	return Composition{}, fmt.Errorf("%w: %s", ErrCompositionNotFound, id)
}

// Plan resolves every quiz of c and lays them out on one timeline.
func (d *Deck) Plan(c Composition) (sequencer.Plan, error) {
	settings := make([]quiz.Settings, 0, len(c.Quizzes))
	for _, q := range c.Quizzes {
		s, err := quiz.Resolve(q, c.FPS, d.DurationInFrames)
		if err != nil {
			return sequencer.Plan{}, fmt.Errorf("composition %s: %w", c.ID, err)
		}
		settings = append(settings, s)
	}
	return sequencer.NewPlan(settings), nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
