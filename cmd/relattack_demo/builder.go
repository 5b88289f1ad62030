package main

import (
	"context"
	"flag"

	"github.com/haderus/ReLAttack/checkpoints"
	"github.com/haderus/ReLAttack/datasets"
	"github.com/haderus/ReLAttack/download/fewshot"
	"github.com/haderus/ReLAttack/experiments"
	"github.com/haderus/ReLAttack/metrics"
	"github.com/haderus/ReLAttack/rewards"
	"github.com/haderus/ReLAttack/scorers"
	"github.com/haderus/ReLAttack/verbalizers"
	"github.com/janpfeifer/must"
)

var (
	flagDataDir     = flag.String("data", "~/work/relattack/data", "Directory holding the 16-shot dataset splits.")
	flagDataset     = flag.String("dataset", "yelp", "Dataset to score prompts against: CoLA, yelp, agnews, ReCoRD or QuAC.")
	flagSeed        = flag.Int("dataset_seed", 0, "Index of the published sampling seed of the 16-shot splits, in [0, 5).")
	flagSplit       = flag.String("split", "dev", "Dataset split: train, dev or test.")
	flagTaskLM      = flag.String("task_lm", "gpt3.5", "Task language model scored through the chat-completions API.")
	flagCleanPrompt = flag.String("clean_prompt", "", "Fixed prompt the typed candidate is appended to.")
	flagArchiveURL  = flag.String("archive_url", "", "Archive with the 16-shot splits, downloaded when the split file is missing.")
	flagConfig      = flag.String("config", "", "YAML experiment file. Overrides the dataset and reward flags above.")
	flagCheckpoint  = flag.String("checkpoint", "", "Directory where prompt scores are saved between sessions.")
)

// evaluation bundles everything one demo session scores against.
type evaluation struct {
	datasetName datasets.Name
	split       datasets.Split
	dataset     *datasets.Dataset
	reward      *rewards.PromptedClassificationReward

	checkpointDir string
	scores        *metrics.Tree[float64]
}

// buildEvaluation wires dataset, verbalizers, scorer and reward from the
// flags (or the experiment file). Panics in case of error.
func buildEvaluation() *evaluation {
	split := must.M1(datasets.ParseSplit(*flagSplit))
	var dsCfg datasets.Config
	rewardCfg := rewards.DefaultConfig()
	checkpointDir := *flagCheckpoint

	if *flagConfig != "" {
		cfg := must.M1(experiments.Load(*flagConfig))
		dsCfg = must.M1(cfg.DatasetConfig())
		rewardCfg = cfg.RewardConfig()
		if cfg.CheckpointDir != "" {
			checkpointDir = cfg.CheckpointDir
		}
	} else {
		name := must.M1(datasets.ParseName(*flagDataset))
		dsCfg = datasets.Config{Dataset: name, DatasetSeed: *flagSeed, BasePath: *flagDataDir}
		rewardCfg.TaskLM = verbalizers.TaskLM(*flagTaskLM)
		rewardCfg.CleanPrompt = *flagCleanPrompt
	}
	// The demo scores single prompts; normalization across a batch of one is
	// always zero, so keep raw rewards.
	rewardCfg.ComputeZScore = false

	if *flagArchiveURL != "" {
		must.M(fewshot.Fetch(context.Background(), *flagArchiveURL, dsCfg, split))
	}
	ds := must.M1(datasets.Load(dsCfg, split))

	set := must.M1(verbalizers.ForDataset(dsCfg.Dataset, rewardCfg.TaskLM))
	template := verbalizers.TemplateFor(dsCfg.Dataset, rewardCfg.TaskLM)
	scorer := scorers.NewOpenAI(string(rewardCfg.TaskLM), set.Tokens)
	reward := must.M1(rewards.New(scorer, set, template, rewardCfg))

	scores := metrics.New[float64]()
	if checkpointDir != "" && checkpoints.Exists(checkpointDir) {
		scores = must.M1(checkpoints.Read(checkpointDir))
	}
	return &evaluation{
		datasetName:   dsCfg.Dataset,
		split:         split,
		dataset:       ds,
		reward:        reward,
		checkpointDir: checkpointDir,
		scores:        scores,
	}
}

// recordScore saves the prompt's reward in the scores tree and, when a
// checkpoint directory is configured, on disk.
func (e *evaluation) recordScore(prompt string, reward float64) error {
	err := e.scores.Set(metrics.Path{e.datasetName.String(), e.split.String(), prompt}, reward)
	if err != nil {
		return err
	}
	if e.checkpointDir == "" {
		return nil
	}
	return checkpoints.Write(e.checkpointDir, e.scores)
}
