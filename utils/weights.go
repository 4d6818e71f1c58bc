package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"pinn_lib/tensor"
)

// WeightsVersion is written into every weights file.
const WeightsVersion = "1.0"

// WeightData represents serializable weight data for a layer
type WeightData struct {
	Name  string    `json:"name"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// Architecture records what is needed to rebuild the network the weights
// belong to.
type Architecture struct {
	Kind        string `json:"kind"`
	LayerSizes  string `json:"layer_sizes"`
	Activation  string `json:"activation"`
	Initializer string `json:"initializer,omitempty"`
	Precision   string `json:"precision,omitempty"`
}

// ModelWeights represents all weights in a model
type ModelWeights struct {
	Version      string                 `json:"version"`
	Architecture *Architecture          `json:"architecture,omitempty"`
	Layers       map[string]LayerWeight `json:"layers"`
}

// LayerWeight contains weights and bias for a layer
type LayerWeight struct {
	Weight *WeightData `json:"weight,omitempty"`
	Bias   *WeightData `json:"bias,omitempty"`
}

// SaveWeights saves model weights to a JSON file
func SaveWeights(filepath string, weights *ModelWeights) error {
	data, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	return os.WriteFile(filepath, data, 0644)
}

// LoadWeights loads model weights from a JSON file
func LoadWeights(filepath string) (*ModelWeights, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	var weights ModelWeights
	if err := json.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
	}
	if weights.Version != WeightsVersion {
		return nil, fmt.Errorf("unsupported weights version %q", weights.Version)
	}
	return &weights, nil
}

// TensorToWeightData converts a tensor to serializable weight data
func TensorToWeightData(name string, t *tensor.Tensor) *WeightData {
	return &WeightData{
		Name:  name,
		Shape: append([]int{}, t.Shape...),
		Data:  append([]float64{}, t.Data...), // copy
	}
}

// WeightDataToTensor converts weight data back to a tensor
func WeightDataToTensor(wd *WeightData) (*tensor.Tensor, error) {
	t := tensor.New(wd.Shape...)
	if len(t.Data) != len(wd.Data) {
		return nil, fmt.Errorf("weight %s: shape %v needs %d values, got %d", wd.Name, wd.Shape, len(t.Data), len(wd.Data))
	}
	copy(t.Data, wd.Data)
	return t, nil
}
