package datasets

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/gomlx/gomlx/ml/data"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config selects one few-shot dataset.
type Config struct {
	// Dataset to load.
	Dataset Name

	// DatasetSeed indexes the fixed list of sampling seeds the splits were
	// published with -- see seedDirs.
	DatasetSeed int

	// BasePath is the directory holding the "16-shot" tree. Defaults to "./data".
	// A leading "~" is expanded to the user's home directory.
	BasePath string

	// NumShots per class. Only the published 16-shot splits are supported,
	// so this defaults to 16.
	NumShots int
}

// seedDirs maps a dataset seed index to the sub-directory the splits for that
// sampling seed were published under.
var seedDirs = map[int]string{
	0: "16-100",
	1: "16-13",
	2: "16-21",
	3: "16-42",
	4: "16-87",
}

func (c Config) withDefaults() Config {
	if c.BasePath == "" {
		c.BasePath = "./data"
	}
	if c.NumShots == 0 {
		c.NumShots = 16
	}
	return c
}

// SplitPath returns the path of the .tsv file holding the given split of the
// configured dataset.
func SplitPath(cfg Config, split Split) (string, error) {
	cfg = cfg.withDefaults()
	if cfg.Dataset == UnknownName {
		return "", errors.New("no dataset configured")
	}
	if cfg.NumShots != 16 {
		return "", errors.Errorf("only the 16-shot splits are published, can't load %d-shot", cfg.NumShots)
	}
	seedDir, found := seedDirs[cfg.DatasetSeed]
	if !found {
		return "", errors.Errorf("dataset seed must be in [0, %d), got %d", len(seedDirs), cfg.DatasetSeed)
	}
	base := data.ReplaceTildeInDir(cfg.BasePath)
	return path.Join(base, fmt.Sprintf("%d-shot", cfg.NumShots), cfg.Dataset.String(), seedDir, split.String()+".tsv"), nil
}

// Load reads one split of the configured dataset from disk.
func Load(cfg Config, split Split) (*Dataset, error) {
	filePath, err := SplitPath(cfg, split)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s split of dataset %s from %q", split, cfg.Dataset, filePath)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q as tab-separated values", filePath)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("%q has no header row", filePath)
	}

	textCol, labelCol := -1, -1
	for col, name := range rows[0] {
		switch name {
		case "text", "sentence":
			if textCol < 0 {
				textCol = col
			}
		case "label":
			labelCol = col
		}
	}
	if textCol < 0 {
		return nil, errors.Errorf("%q has no \"text\" or \"sentence\" column", filePath)
	}
	if labelCol < 0 {
		return nil, errors.Errorf("%q has no \"label\" column", filePath)
	}

	sourceTexts := make([]string, 0, len(rows)-1)
	classLabels := make([]int, 0, len(rows)-1)
	for i, row := range rows[1:] {
		label, err := strconv.Atoi(row[labelCol])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d of %q has a non-integer label %q", i+1, filePath, row[labelCol])
		}
		sourceTexts = append(sourceTexts, row[textCol])
		classLabels = append(classLabels, label)
	}
	klog.V(1).Infof("datasets: loaded %d examples of %s/%s from %q", len(sourceTexts), cfg.Dataset, split, filePath)
	return New(sourceTexts, classLabels)
}

// LoadSplits loads the train, dev and test splits of the configured dataset.
func LoadSplits(cfg Config) (train, dev, test *Dataset, err error) {
	byName := make(map[Split]*Dataset, len(Splits))
	for _, split := range Splits {
		byName[split], err = Load(cfg, split)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return byName[Train], byName[Dev], byName[Test], nil
}
