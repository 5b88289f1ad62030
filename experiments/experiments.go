// Package experiments loads YAML experiment files that bundle the dataset
// choice, the reward configuration and run bookkeeping into one document,
// e.g.:
//
//	dataset:
//	  name: yelp
//	  seed: 1
//	  base_path: ./data
//	reward:
//	  task_lm: distilroberta-base
//	  clean_prompt: "It was"
//	checkpoint_dir: ./runs/yelp-1
package experiments

import (
	"os"

	"github.com/haderus/ReLAttack/datasets"
	"github.com/haderus/ReLAttack/rewards"
	"github.com/haderus/ReLAttack/verbalizers"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is one experiment document.
type Config struct {
	Dataset       DatasetConfig `yaml:"dataset"`
	Reward        RewardConfig  `yaml:"reward"`
	CheckpointDir string        `yaml:"checkpoint_dir"`
}

// DatasetConfig selects the few-shot dataset.
type DatasetConfig struct {
	Name     string `yaml:"name"`
	Seed     int    `yaml:"seed"`
	BasePath string `yaml:"base_path"`
	NumShots int    `yaml:"num_shots"`
}

// RewardConfig mirrors rewards.Config with YAML-friendly field types.
type RewardConfig struct {
	TaskLM         string  `yaml:"task_lm"`
	IsMaskLM       *bool   `yaml:"is_mask_lm"`
	ComputeZScore  bool    `yaml:"compute_zscore"`
	IncorrectCoeff float64 `yaml:"incorrect_coeff"`
	CorrectCoeff   float64 `yaml:"correct_coeff"`
	CleanPrompt    string  `yaml:"clean_prompt"`
	TargetLabel    *int    `yaml:"target_label"`
}

// Default returns a Config pre-filled with the defaults, so fields missing
// from the document keep their default value after decoding.
func Default() Config {
	rewardDefaults := rewards.DefaultConfig()
	return Config{
		Dataset: DatasetConfig{
			BasePath: "./data",
			NumShots: 16,
		},
		Reward: RewardConfig{
			TaskLM:         string(rewardDefaults.TaskLM),
			ComputeZScore:  rewardDefaults.ComputeZScore,
			IncorrectCoeff: rewardDefaults.IncorrectCoeff,
			CorrectCoeff:   rewardDefaults.CorrectCoeff,
		},
	}
}

// Load reads and decodes the experiment file. Unknown fields are an error.
func Load(configPath string) (*Config, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open experiment file %q", configPath)
	}
	defer func() { _ = f.Close() }()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse experiment file %q", configPath)
	}
	return &cfg, nil
}

// DatasetConfig converts the document's dataset section.
func (c *Config) DatasetConfig() (datasets.Config, error) {
	name, err := datasets.ParseName(c.Dataset.Name)
	if err != nil {
		return datasets.Config{}, err
	}
	return datasets.Config{
		Dataset:     name,
		DatasetSeed: c.Dataset.Seed,
		BasePath:    c.Dataset.BasePath,
		NumShots:    c.Dataset.NumShots,
	}, nil
}

// RewardConfig converts the document's reward section.
func (c *Config) RewardConfig() rewards.Config {
	return rewards.Config{
		TaskLM:         verbalizers.TaskLM(c.Reward.TaskLM),
		IsMaskLM:       c.Reward.IsMaskLM,
		ComputeZScore:  c.Reward.ComputeZScore,
		IncorrectCoeff: c.Reward.IncorrectCoeff,
		CorrectCoeff:   c.Reward.CorrectCoeff,
		CleanPrompt:    c.Reward.CleanPrompt,
		TargetLabel:    c.Reward.TargetLabel,
	}
}
