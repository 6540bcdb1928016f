package background

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// DefaultSnapshotDir is where debug snapshots go when no directory is given.
const DefaultSnapshotDir = "./.tmp"

// SaveSnapshot writes img as a PNG named after the current time in
// milliseconds and returns its path.
func SaveSnapshot(img image.Image, dir string) (string, error) {
	if dir == "" {
		dir = DefaultSnapshotDir
	}

	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Snapshot directory needs standard permissions
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("tmp_%d.png", time.Now().UnixMilli()))
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to save snapshot: %w", err)
	}
	return path, nil
}
