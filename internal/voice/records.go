// Package voice generates the narration track of each quiz with a hosted
// text-to-speech model.
package voice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ivlev/quiz2video/internal/quiz"
)

// ID accepts both JSON numbers and strings, since hand-written records use
// either.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("voice id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Record is what the narrator reads for one quiz.
type Record struct {
	ID       ID     `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LoadRecords reads a JSON array of records.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// FromDescriptors derives records from deck quizzes, reading the correct
// option as the answer.
func FromDescriptors(ds []quiz.Descriptor) []Record {
	records := make([]Record, 0, len(ds))
	for _, d := range ds {
		answer := ""
		if len(d.Options) > 0 {
			answer = d.Options[quiz.ClampIndex(d.CorrectIndex, len(d.Options))]
		}
		records = append(records, Record{ID: ID(d.ID), Question: d.Question, Answer: answer})
	}
	return records
}

// BuildScript is the narration text for r.
func BuildScript(r Record) string {
	return strings.TrimSpace(fmt.Sprintf(
		"Alright, listen up!\n\n%s\n\nThink fast!\n...\n\nThe correct answer is...\n%s!",
		r.Question, r.Answer))
}

// FileName is the public asset name the voice-over of id is stored under.
func FileName(id ID) string {
	return fmt.Sprintf("voice-%s.mp3", id)
}
