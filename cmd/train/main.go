// pinn-train: fits an FNN or PFNN to a synthetic multi-output target
//
// Output j of the target is u_j(x) = sin((j+1)·π·mean(x)) on [-1, 1]^d.
//
// Usage:
//
//	pinn-train --net=pfnn --layers="[1, [16, 16], [16, 16], 2]" --epochs=2000 --weights=pfnn.json
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"pinn_lib/config"
	"pinn_lib/nn"
	"pinn_lib/nn/initializers"
	"pinn_lib/tensor"
	"pinn_lib/utils"

	"gorgonia.org/gorgonia"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("[pinn-train] ")

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	verbose := flag.Bool("verbose", true, "Verbose output")
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()
	utils.Verbose = *verbose

	if err := utils.ValidateConfig(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.SetDefaultFloat(cfg.Precision); err != nil {
		log.Fatalf("config: %v", err)
	}
	initializers.Seed(cfg.Seed)

	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Network:       %s %s\n", cfg.Kind, cfg.Architecture)
	fmt.Printf("  Activation:    %s\n", cfg.Activation)
	fmt.Printf("  Initializer:   %s\n", cfg.Initializer)
	fmt.Printf("  Precision:     %s\n", cfg.Precision)
	fmt.Printf("  Epochs:        %d\n", cfg.Epochs)
	fmt.Printf("  Learning Rate: %.4g\n", cfg.LearningRate)
	fmt.Printf("  Samples:       %d\n", cfg.Samples)
	fmt.Println()

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	g := gorgonia.NewGraph()
	net, err := nn.Build(g, cfg.Kind, cfg.Architecture, cfg.Activation, cfg.Initializer)
	if err != nil {
		log.Fatalf("build network: %v", err)
	}
	stats.ModelInitTime = time.Since(start)
	log.Printf("model: %d layers, %d trainable parameters", len(net.Layers()), net.NumTrainableParameters())

	start = time.Now()
	inputs, targets := generateData(net.InputSize(), net.OutputSize(), cfg.Samples, int64(cfg.Seed))
	loss, err := buildLoss(net, inputs, targets)
	if err != nil {
		log.Fatalf("build loss: %v", err)
	}
	if _, err := gorgonia.Grad(loss, net.Learnables()...); err != nil {
		log.Fatalf("gradients: %v", err)
	}
	vm := gorgonia.NewTapeMachine(g, gorgonia.BindDualValues(net.Learnables()...))
	defer vm.Close()
	solver := gorgonia.NewAdamSolver(gorgonia.WithLearnRate(cfg.LearningRate))
	stats.GraphBuildTime = time.Since(start)

	logEvery := cfg.Epochs / 10
	if logEvery == 0 {
		logEvery = 1
	}
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		start = time.Now()
		if err := vm.RunAll(); err != nil {
			log.Fatalf("epoch %d: %v", epoch, err)
		}
		stats.ForwardBackwardTime += time.Since(start)

		start = time.Now()
		if err := solver.Step(gorgonia.NodesToValueGrads(net.Learnables())); err != nil {
			log.Fatalf("epoch %d: update: %v", epoch, err)
		}
		stats.UpdateTime += time.Since(start)

		if epoch%logEvery == 0 || epoch == cfg.Epochs {
			log.Printf("epoch %d/%d | loss: %.6e", epoch, cfg.Epochs, scalar(loss.Value()))
		}
		vm.Reset()
	}

	start = time.Now()
	final, err := evaluateLoss(net, inputs, targets)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	stats.EvaluationTime = time.Since(start)
	stats.TotalTime = time.Since(totalStart)
	log.Printf("final loss: %.6e", final)

	utils.PrintTimingStats(stats, cfg.Epochs)

	if cfg.WeightsPath != "" {
		if err := save(net, cfg); err != nil {
			log.Fatalf("save weights: %v", err)
		}
		log.Printf("weights written to %s", cfg.WeightsPath)
	}
}

// generateData samples n points in [-1, 1]^in and the matching targets.
func generateData(in, out, n int, seed int64) (*tensor.Tensor, *tensor.Tensor) {
	rng := rand.New(rand.NewSource(seed))
	x := tensor.New(n, in)
	y := tensor.New(n, out)
	for i := 0; i < n; i++ {
		mean := 0.0
		for k := 0; k < in; k++ {
			v := 2*rng.Float64() - 1
			x.Set(v, i, k)
			mean += v / float64(in)
		}
		for j := 0; j < out; j++ {
			y.Set(math.Sin(float64(j+1)*math.Pi*mean), i, j)
		}
	}
	return x, y
}

func buildLoss(net nn.Network, inputs, targets *tensor.Tensor) (*gorgonia.Node, error) {
	dt := config.Real()
	xd, err := inputs.ToDense(dt)
	if err != nil {
		return nil, err
	}
	yd, err := targets.ToDense(dt)
	if err != nil {
		return nil, err
	}
	x, err := nn.Input(net, xd)
	if err != nil {
		return nil, err
	}
	pred, err := net.Forward(x)
	if err != nil {
		return nil, err
	}
	y := gorgonia.NewMatrix(net.Graph(), dt, gorgonia.WithShape(targets.Shape...), gorgonia.WithName("target"), gorgonia.WithValue(yd))
	return nn.MeanSquaredError(pred, y)
}

func evaluateLoss(net nn.Network, inputs, targets *tensor.Tensor) (float64, error) {
	xd, err := inputs.ToDense(config.Real())
	if err != nil {
		return 0, err
	}
	out, err := nn.Evaluate(net, xd)
	if err != nil {
		return 0, err
	}
	pred, err := tensor.FromDense(out)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for i, v := range pred.Data {
		d := v - targets.Data[i]
		sum += d * d
	}
	return sum / float64(len(pred.Data)), nil
}

func scalar(v gorgonia.Value) float64 {
	switch x := v.Data().(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	default:
		return math.NaN()
	}
}

func save(net nn.Network, cfg *utils.Config) error {
	mw, err := nn.ExportWeights(net)
	if err != nil {
		return err
	}
	mw.Architecture = &utils.Architecture{
		Kind:        cfg.Kind,
		LayerSizes:  cfg.Architecture,
		Activation:  cfg.Activation,
		Initializer: cfg.Initializer,
		Precision:   cfg.Precision,
	}
	return utils.SaveWeights(cfg.WeightsPath, mw)
}
