package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/polyscribe/polyscribe/pkg/audio"
)

// Staging is a session-scoped directory for diagnostic audio artifacts.
// Each session gets its own UUID-named directory, so concurrent sessions
// never collide on file names; Remove deletes everything when the session
// closes.
type Staging struct {
	id  string
	dir string
}

// NewStaging creates the staging directory under the OS temp dir.
func NewStaging() (*Staging, error) {
	id := uuid.NewString()
	dir := filepath.Join(os.TempDir(), "polyscribe-"+id)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("pipeline: create staging dir: %w", err)
	}
	return &Staging{id: id, dir: dir}, nil
}

// ID returns the session's unique staging identity.
func (s *Staging) ID() string { return s.id }

// Dir returns the staging directory path.
func (s *Staging) Dir() string { return s.dir }

// WriteSegment stores one segment's PCM audio as a numbered WAV file and
// returns its path.
func (s *Staging) WriteSegment(n int, pcm []byte, sampleRate int) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("segment_%d.wav", n))
	if err := os.WriteFile(path, audio.EncodeWAV(pcm, sampleRate), 0o600); err != nil {
		return "", fmt.Errorf("pipeline: stage segment %d: %w", n, err)
	}
	return path, nil
}

// Remove deletes the staging directory and everything in it.
func (s *Staging) Remove() error {
	return os.RemoveAll(s.dir)
}
