// Command reversi-bench exercises Search.Run on a fixed starting
// position and reports the chosen move, score, depth, and node count.
// Search.Run does not fill SearchResult.Nodes, so the printed node
// count is always 0. It is a thin demo binary, not a GTP/CLI protocol
// shim (those are explicitly out of scope).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/natsutteatsuiyone/neural-reversi/internal/config"
	"github.com/natsutteatsuiyone/neural-reversi/internal/engine"
	"github.com/natsutteatsuiyone/neural-reversi/internal/eval"
	"github.com/natsutteatsuiyone/neural-reversi/internal/probcut"
	"github.com/natsutteatsuiyone/neural-reversi/internal/reversi"
	"github.com/natsutteatsuiyone/neural-reversi/internal/xlog"
)

func main() {
	depth := flag.Int("depth", 10, "midgame search depth")
	weightsPath := flag.String("weights", "", "path to zstd-compressed evaluator weights")
	flag.Parse()

	cfg, err := config.Load(".")
	if err != nil {
		xlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	if *weightsPath == "" {
		*weightsPath = cfg.WeightsPath
	}

	net, err := eval.LoadWeights(*weightsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reversi-bench: %v\n", err)
		os.Exit(1)
	}

	s, err := engine.New(engine.SearchOptions{
		TTSizeMB: cfg.TTSizeMB,
		Threads:  cfg.Threads,
		Weights:  net,
	})
	if err != nil {
		xlog.Logger.Fatal().Err(err).Msg("failed to construct search")
	}
	s.Init()

	b := reversi.NewGame()
	result := s.Run(b, engine.SearchRunOptions{
		Level:       engine.Level{MidDepth: *depth, EndDepth: 20, PerfectDepth: 20},
		Selectivity: probcut.NoSelectivity,
		MultiPV:     cfg.MultiPV,
	})

	fmt.Printf("best move: %s  score: %d  depth: %d  nodes: %d\n",
		result.BestMove, result.Score, result.Depth, result.Nodes)
}
