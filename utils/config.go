package utils

import (
	"flag"
	"fmt"
	"strings"

	"pinn_lib/config"
)

// Config holds the settings shared by the train and infer binaries.
type Config struct {
	Kind         string  `env:"PINN_NET"         envDefault:"fnn"`
	Architecture string  `env:"PINN_LAYER_SIZES" envDefault:"[1, 32, 32, 1]"`
	Activation   string  `env:"PINN_ACTIVATION"  envDefault:"tanh"`
	Initializer  string  `env:"PINN_INITIALIZER" envDefault:"Glorot normal"`
	Precision    string  `env:"PINN_FLOAT"       envDefault:"float32"`
	Epochs       int     `env:"PINN_EPOCHS"      envDefault:"2000"`
	LearningRate float64 `env:"PINN_LR"          envDefault:"0.001"`
	Samples      int     `env:"PINN_SAMPLES"     envDefault:"64"`
	Seed         uint64  `env:"PINN_SEED"        envDefault:"42"`
	WeightsPath  string  `env:"PINN_WEIGHTS"`
}

// LoadConfig reads Config from PINN_* environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := config.ParseEnv(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// RegisterFlags binds flags to c using the current values as defaults, so
// flags override the environment.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Kind, "net", c.Kind, "Network kind: fnn, pfnn")
	fs.StringVar(&c.Architecture, "layers", c.Architecture, "Layer sizes, e.g. [1, [16, 16], 2]")
	fs.StringVar(&c.Activation, "activation", c.Activation, "Activation name")
	fs.StringVar(&c.Initializer, "init", c.Initializer, "Weight initializer name")
	fs.StringVar(&c.Precision, "float", c.Precision, "Float precision: float32, float64")
	fs.IntVar(&c.Epochs, "epochs", c.Epochs, "Number of training epochs")
	fs.Float64Var(&c.LearningRate, "lr", c.LearningRate, "Learning rate")
	fs.IntVar(&c.Samples, "samples", c.Samples, "Number of sample points")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "Random seed")
	fs.StringVar(&c.WeightsPath, "weights", c.WeightsPath, "Weights file (JSON)")
}

// ValidateConfig validates run configuration
func ValidateConfig(c *Config) error {
	if c.Kind != "fnn" && c.Kind != "pfnn" {
		return fmt.Errorf("network kind must be 'fnn' or 'pfnn', got %q", c.Kind)
	}
	if strings.TrimSpace(c.Architecture) == "" {
		return fmt.Errorf("layer sizes must be set")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if c.Samples < 2 {
		return fmt.Errorf("samples must be at least 2")
	}
	if c.Precision != "float32" && c.Precision != "float64" {
		return fmt.Errorf("float precision must be 'float32' or 'float64', got %q", c.Precision)
	}
	return nil
}
