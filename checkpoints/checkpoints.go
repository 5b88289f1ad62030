// Package checkpoints persists prompt scores between runs as
// msgpack-encoded files inside a run directory.
package checkpoints

import (
	"os"
	"path"
	"strings"

	"github.com/gomlx/gomlx/ml/data"
	"github.com/haderus/ReLAttack/metrics"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
	"k8s.io/klog/v2"
)

const (
	ScoresFileName = "scores"

	// pathSeparator joins metrics.Path components into the flat keys stored
	// on disk. Prompts end up as path components, so the separator must be
	// something that never shows up in prompt text.
	pathSeparator = "\x1f"
)

// Write stores the scores tree under checkpointDir, creating the directory
// when needed. An existing scores file is replaced.
func Write(checkpointDir string, scores *metrics.Tree[float64]) error {
	checkpointDir = data.ReplaceTildeInDir(checkpointDir)
	if err := os.MkdirAll(checkpointDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create checkpoint directory %q", checkpointDir)
	}
	scoresPath := path.Join(checkpointDir, ScoresFileName)
	f, err := os.Create(scoresPath)
	if err != nil {
		return errors.Wrapf(err, "failed to create scores checkpoint file %q", scoresPath)
	}

	flat := make(map[string]float64, scores.NumLeaves())
	for p, score := range scores.OrderedLeaves() {
		flat[strings.Join(p, pathSeparator)] = score
	}
	enc := msgpack.NewEncoder(f)
	err = enc.Encode(flat)
	if err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to encode %d scores to %q", len(flat), scoresPath)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %q", scoresPath)
	}
	klog.V(1).Infof("checkpoints: wrote %d scores to %q", len(flat), scoresPath)
	return nil
}

// Read loads the scores tree stored under checkpointDir.
func Read(checkpointDir string) (*metrics.Tree[float64], error) {
	checkpointDir = data.ReplaceTildeInDir(checkpointDir)
	scoresPath := path.Join(checkpointDir, ScoresFileName)
	f, err := os.Open(scoresPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read scores checkpoint from %q", scoresPath)
	}
	defer func() { _ = f.Close() }()

	var flat map[string]float64
	dec := msgpack.NewDecoder(f)
	if err = dec.Decode(&flat); err != nil {
		return nil, errors.Wrapf(err, "failed to decode scores checkpoint %q", scoresPath)
	}

	scores := metrics.New[float64]()
	for key, score := range flat {
		if err = scores.Set(strings.Split(key, pathSeparator), score); err != nil {
			return nil, errors.WithMessagef(err, "checkpoint %q holds conflicting entries", scoresPath)
		}
	}
	return scores, nil
}

// Exists reports whether checkpointDir holds a scores file.
func Exists(checkpointDir string) bool {
	checkpointDir = data.ReplaceTildeInDir(checkpointDir)
	_, err := os.Stat(path.Join(checkpointDir, ScoresFileName))
	return err == nil
}
