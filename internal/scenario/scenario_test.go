package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/quiz2video/internal/quiz"
)

const sampleDeck = `
fps: 30
durationInFrames: 300
music: /audio/bed.mp3
quizzes:
  - id: "7"
    backgroundSrc: /images/space.jpg
    question: Which planet is known as the Red Planet?
    options: [Venus, Mars, Jupiter, Saturn]
    correctIndex: 1
    countdownSeconds: 10
    voiceDurationSeconds: 12
  - backgroundSrc: /images/ocean.jpg
    question: Largest ocean?
    options: [Atlantic, Pacific]
    correctIndex: 1
    countdownSeconds: 5
    segmentDurationInFrames: 240
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDeck), 0644))
	return path
}

func TestReadDeckDefaults(t *testing.T) {
	deck, err := ReadDeck(writeSample(t))
	require.NoError(t, err)

	assert.Equal(t, "1.0", deck.Version)
	assert.Equal(t, 30, deck.FPS)
	assert.Equal(t, DefaultWidth, deck.Width)
	assert.Equal(t, DefaultHeight, deck.Height)
	assert.Equal(t, 300, deck.DurationInFrames)
	require.Len(t, deck.Quizzes, 2)
	assert.Equal(t, "7", deck.Quizzes[0].ID)
	assert.Equal(t, "2", deck.Quizzes[1].ID, "missing ids fall back to position")
	require.NotNil(t, deck.Quizzes[0].VoiceDurationSeconds)
	assert.Equal(t, 12.0, *deck.Quizzes[0].VoiceDurationSeconds)
	assert.Nil(t, deck.Quizzes[1].VoiceDurationSeconds)
}

func TestReadDeckErrors(t *testing.T) {
	_, err := ReadDeck(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("quizzes: [\n"), 0644))
	_, err = ReadDeck(bad)
	assert.Error(t, err)
}

func TestWriteReadRoundTrip(t *testing.T) {
	voice := 4.5
	deck := &Deck{
		FPS:              24,
		DurationInFrames: 120,
		Quizzes: []quiz.Descriptor{{
			ID:                   "a",
			Question:             "Q?",
			Options:              []string{"x", "y"},
			CountdownSeconds:     3,
			VoiceDurationSeconds: &voice,
		}},
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteDeck(deck, path))

	got, err := ReadDeck(path)
	require.NoError(t, err)
	assert.Equal(t, 24, got.FPS)
	assert.Equal(t, deck.Quizzes[0].Options, got.Quizzes[0].Options)
	assert.Equal(t, 4.5, *got.Quizzes[0].VoiceDurationSeconds)
}

func TestCompositions(t *testing.T) {
	deck, err := ReadDeck(writeSample(t))
	require.NoError(t, err)

	var ids []string
	for _, c := range deck.Compositions() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"QuizVideo", "Quiz7", "Quiz2", "QuizAll"}, ids)

	single, err := deck.Composition(SingleID)
	require.NoError(t, err)
	require.Len(t, single.Quizzes, 1)
	assert.Equal(t, "7", single.Quizzes[0].ID)
	assert.Empty(t, single.Music, "single-quiz compositions carry no bed")

	all, err := deck.Composition(CombinedID)
	require.NoError(t, err)
	assert.Len(t, all.Quizzes, 2)
	assert.Equal(t, "/audio/bed.mp3", all.Music)

	_, err = deck.Composition("Quiz99")
	assert.ErrorIs(t, err, ErrCompositionNotFound)
}

func TestEmptyDeckStillHasCombined(t *testing.T) {
	deck := &Deck{}
	deck.applyDefaults()

	comps := deck.Compositions()
	require.Len(t, comps, 1)
	assert.Equal(t, CombinedID, comps[0].ID)

	plan, err := deck.Plan(comps[0])
	require.NoError(t, err)
	assert.Zero(t, plan.TotalFrames)
}

func TestPlanAndReport(t *testing.T) {
	deck, err := ReadDeck(writeSample(t))
	require.NoError(t, err)

	all, err := deck.Composition(CombinedID)
	require.NoError(t, err)
	plan, err := deck.Plan(all)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 300}, plan.Offsets)
	assert.Equal(t, 540, plan.TotalFrames)

	r := NewPlanReport(all.ID, all.FPS, plan)
	require.Len(t, r.Segments, 2)
	assert.Equal(t, 12.0, r.Segments[0].RevealSeconds)
	assert.Equal(t, 299, r.Segments[0].RevealFrame, "reveal clamps to the last frame")
	assert.Equal(t, "Mars", r.Segments[0].Answer)
	assert.Equal(t, 150, r.Segments[1].RevealFrame)
	assert.Equal(t, 450, r.Segments[1].GlobalReveal)
	assert.Equal(t, []int{0, 30, 60, 90, 120}, r.Segments[1].TickFrames)

	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, WritePlanReport(r, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "globalRevealFrame: 450")
}

func TestPlanRejectsBadFrameRate(t *testing.T) {
	deck := &Deck{FPS: 0, DurationInFrames: 10, Quizzes: []quiz.Descriptor{{ID: "1"}}}
	c := deck.Compositions()[0]
	_, err := deck.Plan(c)
	assert.ErrorIs(t, err, quiz.ErrInvalidFrameRate)
}

func TestFindLatestDeck(t *testing.T) {
	dir := t.TempDir()
	names := []string{"old.yaml", "newest.yml", "middle.yaml", "notes.txt"}
	for i, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("quizzes: []"), 0644))
		mod := time.Now().Add(time.Duration(i) * time.Hour)
		if n == "newest.yml" {
			mod = time.Now().Add(48 * time.Hour)
		}
		require.NoError(t, os.Chtimes(p, mod, mod))
	}

	latest, err := FindLatestDeck(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "newest.yml"), latest)

	_, err = FindLatestDeck(t.TempDir())
	assert.Error(t, err)
}

func TestFindLatestDeckSkipsUnreadable(t *testing.T) {
	dir := t.TempDir()
	deck := filepath.Join(dir, "deck.yaml")
	require.NoError(t, os.WriteFile(deck, []byte("quizzes: []"), 0644))
	if err := os.Symlink(filepath.Join(dir, "gone.yaml"), filepath.Join(dir, "broken.yaml")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	latest, err := FindLatestDeck(dir)
	require.NoError(t, err)
	assert.Equal(t, deck, latest)

	require.NoError(t, os.Remove(deck))
	_, err = FindLatestDeck(dir)
	assert.ErrorContains(t, err, "no deck files found")
}

func TestGenerateOutputPath(t *testing.T) {
	p := GenerateOutputPath("out", "QuizAll")
	assert.Equal(t, "out", filepath.Dir(p))
	assert.Regexp(t, `^QuizAll_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.mp4$`, filepath.Base(p))
}
