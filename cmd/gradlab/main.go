// Package main provides the gradlab CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/born-ml/gradlab/internal/config"
	"github.com/born-ml/gradlab/internal/trainer"
)

const version = "v0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("gradlab %s\n", version)
	case "train":
		if err := train(os.Args[2:]); err != nil {
			log.Printf("training failed: %v", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("gradlab - small neural networks on a minimal autodiff library")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a model (gradlab train -h for flags)")
}

func train(args []string) error {
	cfg, err := trainConfig(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = trainer.Run(ctx, cfg)
	return err
}

// trainConfig parses the train flags and returns the validated config they
// describe.
func trainConfig(args []string) (*config.Config, error) {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	model := fs.String("model", "", "Model to train: perceptron, regression, digits or language")
	cfgPath := fs.String("config", "", "Path to YAML config")
	dataDir := fs.String("data", "", "Directory holding the dataset files (synthetic data when empty)")
	seed := fs.Uint64("seed", 0, "PRNG seed (overrides the config file when set, including 0)")
	maxEpochs := fs.Int("max-epochs", 0, "Give up after N epochs")
	logEvery := fs.Int("log-every", 0, "Log every N updates")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := config.Default(*model)
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			return nil, err
		}
	}

	overrides := config.Overrides{
		Model:     *model,
		DataDir:   *dataDir,
		MaxEpochs: *maxEpochs,
		LogEvery:  *logEvery,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			overrides.Seed = seed
		}
	})
	cfg.ApplyOverrides(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
