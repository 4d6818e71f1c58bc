// pinn-infer: evaluates a trained network on a uniform grid
//
// The architecture is read from the weights file written by pinn-train.
//
// Usage:
//
//	pinn-infer --weights=pfnn.json --samples=11 --lo=-1 --hi=1
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"pinn_lib/config"
	"pinn_lib/nn"
	"pinn_lib/tensor"
	"pinn_lib/utils"

	"gorgonia.org/gorgonia"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("[pinn-infer] ")

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lo := flag.Float64("lo", -1, "Grid start")
	hi := flag.Float64("hi", 1, "Grid end")
	flag.StringVar(&cfg.WeightsPath, "weights", cfg.WeightsPath, "Weights file (JSON)")
	flag.IntVar(&cfg.Samples, "samples", 11, "Number of grid points")
	flag.Parse()

	if cfg.WeightsPath == "" {
		log.Fatal("a weights file is required (--weights or PINN_WEIGHTS)")
	}
	if cfg.Samples < 1 {
		log.Fatal("samples must be positive")
	}
	mw, err := utils.LoadWeights(cfg.WeightsPath)
	if err != nil {
		log.Fatalf("load weights: %v", err)
	}
	arch := mw.Architecture
	if arch == nil {
		log.Fatalf("%s has no architecture section", cfg.WeightsPath)
	}
	if arch.Precision != "" {
		if err := config.SetDefaultFloat(arch.Precision); err != nil {
			log.Fatalf("config: %v", err)
		}
	}

	g := gorgonia.NewGraph()
	net, err := nn.Build(g, arch.Kind, arch.LayerSizes, arch.Activation, "zeros")
	if err != nil {
		log.Fatalf("build network: %v", err)
	}
	if err := nn.ImportWeights(net, mw); err != nil {
		log.Fatalf("load weights: %v", err)
	}
	log.Printf("loaded %s %s (%d parameters)", arch.Kind, arch.LayerSizes, net.NumTrainableParameters())

	x := gridInputs(*lo, *hi, cfg.Samples, net.InputSize())
	xd, err := x.ToDense(config.Real())
	if err != nil {
		log.Fatalf("input: %v", err)
	}
	out, err := nn.Evaluate(net, xd)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	y, err := tensor.FromDense(out)
	if err != nil {
		log.Fatalf("output: %v", err)
	}
	printTable(x, y)
}

// gridInputs repeats a linspace over every input feature.
func gridInputs(lo, hi float64, n, width int) *tensor.Tensor {
	line := tensor.Linspace(lo, hi, n)
	x := tensor.New(n, width)
	for i := 0; i < n; i++ {
		for k := 0; k < width; k++ {
			x.Set(line.At(i, 0), i, k)
		}
	}
	return x
}

func printTable(x, y *tensor.Tensor) {
	header := []string{fmt.Sprintf("%10s", "x")}
	for j := 0; j < y.Shape[1]; j++ {
		header = append(header, fmt.Sprintf("%12s", fmt.Sprintf("u%d", j)))
	}
	fmt.Fprintln(os.Stdout, strings.Join(header, " "))
	for i := 0; i < y.Shape[0]; i++ {
		row := []string{fmt.Sprintf("%10.4f", x.At(i, 0))}
		for j := 0; j < y.Shape[1]; j++ {
			row = append(row, fmt.Sprintf("%12.6f", y.At(i, j)))
		}
		fmt.Fprintln(os.Stdout, strings.Join(row, " "))
	}
}
