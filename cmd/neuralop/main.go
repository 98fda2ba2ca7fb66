// Package main provides the neuralop CLI.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/born-ml/neuralop/backend/cpu"
	"github.com/born-ml/neuralop/nn"
	"github.com/born-ml/neuralop/tensor"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("neuralop %s\n", version)
	case "describe":
		err = describe(os.Args[2:], os.Stdout)
	case "forward":
		err = forward(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "neuralop - spectral neural operator layers for Go")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  describe   Print the weight layout and parameter count of a layer")
	fmt.Fprintln(w, "  forward    Run a random batch through a layer and report the output")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'neuralop <command> -h' for command flags.")
}

// layerFlags binds the layer configuration shared by every command.
type layerFlags struct {
	in, out        int
	modes          string
	maxModes       string
	factorization  string
	rank           float64
	implementation string
	precision      string
	separable      bool
	complexData    bool
	noBias         bool
	norm           string
	scale          float64
	seed           uint64
	verbose        bool
}

func (f *layerFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&f.in, "in", 3, "Input channels")
	fs.IntVar(&f.out, "out", 4, "Output channels")
	fs.StringVar(&f.modes, "modes", "8,8", "Comma-separated Fourier modes per spatial axis")
	fs.StringVar(&f.maxModes, "max-modes", "", "Comma-separated weight capacity in stored units (default: adjusted modes)")
	fs.StringVar(&f.factorization, "factorization", "dense", "Weight representation: dense, cp, tucker or tt")
	fs.Float64Var(&f.rank, "rank", 0.5, "Fractional rank of factorized weights")
	fs.StringVar(&f.implementation, "implementation", "reconstructed", "reconstructed or factorized")
	fs.StringVar(&f.precision, "precision", "full", "full, half or mixed")
	fs.BoolVar(&f.separable, "separable", false, "Depthwise weights (in must equal out)")
	fs.BoolVar(&f.complexData, "complex", false, "Complex-valued activations")
	fs.BoolVar(&f.noBias, "no-bias", false, "Disable the bias")
	fs.StringVar(&f.norm, "norm", "backward", "FFT normalization: backward, forward or ortho")
	fs.Float64Var(&f.scale, "scale", 0, "Output scaling factor for every axis (0 keeps the input resolution)")
	fs.Uint64Var(&f.seed, "seed", 0, "Initialization seed (0 = random)")
	fs.BoolVar(&f.verbose, "v", false, "Debug logging to stderr")
}

func (f *layerFlags) config() (nn.SpectralConvConfig, error) {
	modes, err := parseInts(f.modes)
	if err != nil {
		return nn.SpectralConvConfig{}, errors.Wrap(err, "-modes")
	}
	cfg := nn.DefaultSpectralConvConfig(f.in, f.out, modes...)
	if f.maxModes != "" {
		if cfg.MaxNModes, err = parseInts(f.maxModes); err != nil {
			return nn.SpectralConvConfig{}, errors.Wrap(err, "-max-modes")
		}
	}
	cfg.Factorization = f.factorization
	cfg.Rank = f.rank
	cfg.Implementation = nn.Implementation(f.implementation)
	cfg.PrecisionMode = nn.PrecisionMode(f.precision)
	cfg.Separable = f.separable
	cfg.ComplexData = f.complexData
	cfg.Bias = !f.noBias
	cfg.FFTNorm = f.norm
	cfg.Seed = f.seed
	if f.scale > 0 {
		cfg.OutputScalingFactor = nn.UniformScaling(f.scale, 1)
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, nil
}

func describe(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	var lf layerFlags
	lf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := lf.config()
	if err != nil {
		return err
	}
	conv, err := nn.NewSpectralConv(cfg, cpu.New())
	if err != nil {
		return err
	}

	fmt.Fprintln(w, conv.String())
	fmt.Fprintf(w, "n_modes:     %v\n", conv.NModes())
	fmt.Fprintf(w, "max_n_modes: %v\n", conv.MaxNModes())
	if ranks := conv.Weight().Ranks(); ranks != nil {
		fmt.Fprintf(w, "ranks:       %v\n", ranks)
	}
	fmt.Fprintln(w, "parameters:")
	for _, p := range conv.Parameters() {
		fmt.Fprintf(w, "  %-20s %-10s %v\n", p.Name(), p.DType(), p.Shape())
	}
	total := nn.CountParameters(conv.Parameters())
	dense := conv.Weight().Shape().NumElements()
	fmt.Fprintf(w, "total: %d (dense weight would hold %d complex values)\n", total, dense)
	return nil
}

func forward(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("forward", flag.ContinueOnError)
	var lf layerFlags
	lf.register(fs)
	batch := fs.Int("batch", 2, "Batch size")
	grid := fs.String("grid", "16,16", "Comma-separated spatial input size")
	save := fs.String("save", "", "Write the layer to this SafeTensors file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := lf.config()
	if err != nil {
		return err
	}
	spatial, err := parseInts(*grid)
	if err != nil {
		return errors.Wrap(err, "-grid")
	}

	backend := cpu.New()
	conv, err := nn.NewSpectralConv(cfg, backend)
	if err != nil {
		return err
	}

	shape := append(tensor.Shape{*batch, cfg.InChannels}, spatial...)
	if err := shape.Validate(); err != nil {
		return err
	}

	start := time.Now()
	var out *tensor.RawTensor
	if cfg.ComplexData {
		out = conv.ForwardComplex(tensor.RandnSeeded[complex64](shape, cfg.Seed+1, backend)).Raw()
	} else {
		out = conv.Forward(tensor.RandnSeeded[float32](shape, cfg.Seed+1, backend)).Raw()
	}
	elapsed := time.Since(start)

	fmt.Fprintf(w, "input:  %v\n", shape)
	fmt.Fprintf(w, "output: %v %s\n", out.Shape(), out.DType())
	fmt.Fprintf(w, "time:   %v\n", elapsed)

	if *save != "" {
		meta := map[string]string{"grid": *grid, "modes": lf.modes}
		if err := nn.Save(conv, *save, meta); err != nil {
			return err
		}
		cfg.Logger.Info("saved layer", "path", *save)
	}
	return nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
