package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"graphcutenergy/internal/logger"
	"graphcutenergy/internal/models"
	"graphcutenergy/pkg/audit"
	"graphcutenergy/pkg/config"
	"graphcutenergy/pkg/energy"
)

const component = "gcenergy"

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "gcenergy.yaml", "YAML configuration file (defaults are used if missing)")
	sigma := flag.Float64("sigma", 0, "Override energy.sigma (0 keeps the configured value)")
	weightType := flag.String("weight", "", "Override energy.weightType (uint8, uint16, uint32, int16, int32, int64, float32, float64)")
	neighborhood := flag.String("neighborhood", "", "Override energy.neighborhood (4, 6, 8 or 26)")
	numCores := flag.Int("cores", 0, "Override processing.numCores (0 keeps the configured value)")
	showTable := flag.Bool("table", true, "Print the boundary weight calibration table")
	runAudit := flag.Bool("audit", true, "Audit the energy terms over the synthetic phantom volume")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *sigma != 0 {
		cfg.Energy.Sigma = *sigma
	}
	if *weightType != "" {
		cfg.Energy.WeightType = *weightType
	}
	if *neighborhood != "" {
		cfg.Energy.Neighborhood = *neighborhood
	}
	if *numCores != 0 {
		cfg.Processing.NumCores = *numCores
	}

	log := logger.NewConsole(logger.ParseLevel(cfg.Output.LogLevel))
	if err := cfg.Validate(); err != nil {
		log.Error(component, err, map[string]interface{}{"config": *configPath})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := runOptions{cfg: cfg, log: log, table: *showTable, audit: *runAudit}
	ok, err := dispatch(ctx, opts)
	if err != nil {
		log.Error(component, err, map[string]interface{}{"weightType": cfg.Energy.WeightType})
		os.Exit(1)
	}
	if !ok {
		os.Exit(2)
	}
}

type runOptions struct {
	cfg   *config.Config
	log   *logger.Logger
	table bool
	audit bool
}

// dispatch instantiates run for the configured weight type.
func dispatch(ctx context.Context, opts runOptions) (bool, error) {
	switch opts.cfg.Energy.WeightType {
	case "uint8":
		return run(ctx, opts, energy.Uint8Traits)
	case "uint16":
		return run(ctx, opts, energy.Uint16Traits)
	case "uint32":
		return run(ctx, opts, energy.Uint32Traits)
	case "int16":
		return run(ctx, opts, energy.Int16Traits)
	case "int32":
		return run(ctx, opts, energy.Int32Traits)
	case "int64":
		return run(ctx, opts, energy.Int64Traits)
	case "float32":
		return run(ctx, opts, energy.Float32Traits)
	case "float64":
		return run(ctx, opts, energy.Float64Traits)
	}
	return false, fmt.Errorf("unknown weight type %q", opts.cfg.Energy.WeightType)
}

func run[W energy.Weight](ctx context.Context, opts runOptions, traits energy.Traits[W]) (bool, error) {
	cfg := opts.cfg
	nb, err := energy.ParseNeighborhood(cfg.Energy.Neighborhood)
	if err != nil {
		return false, err
	}

	phantomOpts := models.DefaultPhantomOptions()
	phantomOpts.Width = cfg.Phantom.Width
	phantomOpts.Height = cfg.Phantom.Height
	phantomOpts.Depth = cfg.Phantom.Depth
	phantomOpts.Radius = cfg.Phantom.Radius
	phantomOpts.Noise = cfg.Phantom.Noise
	phantomOpts.Seed = cfg.Phantom.Seed
	phantomOpts.Foreground = cfg.Labels.Foreground
	phantomOpts.Background = cfg.Labels.Background
	inputs := models.NewPhantom(phantomOpts)

	calc, err := energy.New[uint8, float64](inputs, traits,
		energy.WithSigma(cfg.Energy.Sigma),
		energy.WithNeighborhood(nb))
	if err != nil {
		return false, fmt.Errorf("creating calculator: %w", err)
	}
	opts.log.Info(component, "calculator ready", map[string]interface{}{
		"sigma":        calc.Sigma(),
		"neighborhood": nb.Size(),
		"weightType":   traits.Name,
		"scaling":      calc.Scaling(),
	})

	if cfg.Output.Verbose {
		fmt.Println("================================")
		fmt.Println("GRAPH-CUT ENERGY TERMS")
		fmt.Println("================================")
		fmt.Print(calc.Describe())
	}

	if opts.table {
		rows, err := calc.Calibrate(cfg.Calibration.MaxDifference, cfg.Calibration.Steps)
		if err != nil {
			return false, fmt.Errorf("calibrating: %w", err)
		}
		fmt.Printf("\nBoundary weight calibration (sigma=%g):\n", calc.Sigma())
		fmt.Printf("%12s %14s %22s\n", "difference", "affinity", "weight")
		for _, row := range rows {
			fmt.Printf("%12.4f %14.6g %22v\n", row.Difference, row.Affinity, row.Weight)
		}
	}

	if !opts.audit {
		return true, nil
	}

	width, height, depth := inputs.Dims()
	start := time.Now()
	report, err := audit.Run(ctx, calc, audit.Params{
		Width:    width,
		Height:   height,
		Depth:    depth,
		NumCores: cfg.Processing.NumCores,
	})
	if err != nil {
		return false, err
	}
	elapsed := time.Since(start)

	fields := map[string]interface{}{
		"nodes":          report.Nodes,
		"pairs":          report.Pairs,
		"maxIncidentSum": report.MaxIncidentSum,
		"limit":          report.Limit,
		"violations":     report.ViolationCount,
		"elapsed":        elapsed.String(),
	}
	if report.OK() {
		opts.log.Info(component, "audit passed", fields)
	} else {
		fields["firstViolations"] = report.Violations
		opts.log.Warning(component, "boundary weights overwhelm seed weight", fields)
	}

	if cfg.Output.Verbose {
		fmt.Printf("\nAudit of %dx%dx%d phantom (%d cores):\n", width, height, depth, cfg.Processing.NumCores)
		fmt.Printf("Voxels: %d, neighbor pairs: %d\n", report.Nodes, report.Pairs)
		fmt.Printf("Seeds: %d foreground, %d background, %d unlabeled\n",
			report.Foreground, report.Background, report.Unlabeled)
		fmt.Printf("Boundary weights: mean %.3f, std-dev %.3f, min %.3f, max %.3f, zero %d\n",
			report.Mean, report.StdDev, report.Min, report.Max, report.ZeroWeights)
		fmt.Printf("Largest incident sum: %.3f (limit %.3f)\n", report.MaxIncidentSum, report.Limit)
	}

	return report.OK(), nil
}
