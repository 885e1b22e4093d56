package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/quiz2video/internal/sequencer"
	"github.com/ivlev/quiz2video/internal/timeline"
)

// WriteDeck writes a deck to a YAML file
func WriteDeck(deck *Deck, path string) error {
	data, err := yaml.Marshal(deck)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDeck reads a deck from a YAML file and fills composition defaults.
func ReadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var deck Deck
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("parse deck %s: %w", path, err)
	}
	deck.applyDefaults()

	return &deck, nil
}

// PlanReport is the human-readable dump of a resolved plan.
type PlanReport struct {
	Composition string          `yaml:"composition"`
	FPS         int             `yaml:"fps"`
	TotalFrames int             `yaml:"totalFrames"`
	Segments    []SegmentReport `yaml:"segments"`
}

type SegmentReport struct {
	ID            string  `yaml:"id"`
	Offset        int     `yaml:"offset"`
	Frames        int     `yaml:"frames"`
	RevealSeconds float64 `yaml:"revealSeconds"`
	RevealFrame   int     `yaml:"revealFrame"`
	GlobalReveal  int     `yaml:"globalRevealFrame"`
	TickFrames    []int   `yaml:"tickFrames,flow"`
	CorrectIndex  int     `yaml:"correctIndex"`
	Answer        string  `yaml:"answer"`
}

// NewPlanReport summarizes every segment of p.
func NewPlanReport(id string, fps int, p sequencer.Plan) PlanReport {
	r := PlanReport{Composition: id, FPS: fps, TotalFrames: p.TotalFrames}
	for i, s := range p.Segments {
		tl := timeline.At(s, 0)
		r.Segments = append(r.Segments, SegmentReport{
			ID:            s.ID,
			Offset:        p.Offsets[i],
			Frames:        s.SegmentFrames,
			RevealSeconds: timeline.RevealSeconds(s),
			RevealFrame:   tl.RevealFrame,
			GlobalReveal:  p.Offsets[i] + tl.RevealFrame,
			TickFrames:    tl.TickFrames,
			CorrectIndex:  s.CorrectIndex,
			Answer:        s.CorrectOption(),
		})
	}
	return r
}

// WritePlanReport writes a plan report to a YAML file
func WritePlanReport(r PlanReport, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
