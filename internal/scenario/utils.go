package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DecksDir is where decks live when no path is given.
var DecksDir = filepath.Join("input", "decks")

// GenerateOutputPath creates a timestamped output filename for a composition
func GenerateOutputPath(dir, compositionID string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.mp4", compositionID, timestamp))
}

// FindLatestDeck finds the most recently modified deck file in dir
func FindLatestDeck(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read decks directory: %w", err)
	}

	var (
		latest  string
		modTime time.Time
	)
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		p := filepath.Join(dir, entry.Name())
		// Files can vanish between ReadDir and Stat; dangling links never open.
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(modTime) {
			latest, modTime = p, info.ModTime()
		}
	}

	if latest == "" {
		return "", fmt.Errorf("no deck files found in %s", dir)
	}
	return latest, nil
}
