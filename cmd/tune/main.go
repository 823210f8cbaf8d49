// Package main searches Arrive's time_to_target and radius for fast,
// smooth, close arrivals using gonum's optimizers.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/kinematic/config"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval         int     `csv:"eval"`
	Score        float64 `csv:"score"`
	TimeToTarget float64 `csv:"time_to_target"`
	Radius       float64 `csv:"radius"`
	ArrivalSec   float64 `csv:"last_arrival_sec"`
	FinalDist    float64 `csv:"last_final_distance"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 3600, "Maximum ticks per scenario run")
	seeds := flag.Int("seeds", 5, "Number of start positions per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	method := flag.String("method", "nelder-mead", "Optimizer: nelder-mead or cmaes")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Scenario runs log at Info; keep only warnings.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewEvaluator(params, baseCfg, evalSeeds, int32(*maxTicks))

	var m optimize.Method
	switch *method {
	case "nelder-mead":
		m = &optimize.NelderMead{}
	case "cmaes":
		m = &optimize.CmaEsChol{InitStepSize: 0.3}
	default:
		log.Fatalf("unknown method %q", *method)
	}

	logFile, err := os.Create(filepath.Join(*outputDir, "tune_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestScore := 1e18
	var bestParams []float64
	var evalErr error
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			score, err := evaluator.Evaluate(raw)
			if err != nil {
				evalErr = err
				return 1e18
			}
			evalCount++
			if score < bestScore {
				bestScore = score
				bestParams = raw
			}

			last := evaluator.Last()
			rec := []EvalRecord{{
				Eval:         evalCount,
				Score:        score,
				TimeToTarget: raw[0],
				Radius:       raw[1],
				ArrivalSec:   last.arrivalSec,
				FinalDist:    last.finalDist,
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(rec, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			fmt.Printf("Eval %d/%d: score=%.3f time_to_target=%.3f radius=%.3f (best=%.3f) | elapsed: %s\n",
				evalCount, *maxEvals, score, raw[0], raw[1], bestScore, time.Since(startTime).Round(time.Second))
			return score
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}

	fmt.Printf("Starting %s search over %d parameters, %d starts per evaluation\n", *method, params.Dim(), *seeds)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, m)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if evalErr != nil {
		log.Fatalf("evaluation failed: %v", evalErr)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nSearch complete after %d evaluations in %s\n", evalCount, time.Since(startTime).Round(time.Second))
	fmt.Printf("Best score: %.3f\n", bestScore)
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
