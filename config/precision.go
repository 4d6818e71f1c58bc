// Package config holds process-wide numeric settings shared by every network.
package config

import (
	"fmt"
	"sync"

	"gorgonia.org/tensor"
)

var (
	mu       sync.RWMutex
	realType = tensor.Float32
)

// Real returns the float dtype used for new parameters and inputs.
func Real() tensor.Dtype {
	mu.RLock()
	defer mu.RUnlock()
	return realType
}

// SetDefaultFloat sets the global float precision. Accepted values are
// "float32" and "float64".
func SetDefaultFloat(name string) error {
	dt, err := parseFloat(name)
	if err != nil {
		return err
	}
	mu.Lock()
	realType = dt
	mu.Unlock()
	return nil
}

func parseFloat(name string) (tensor.Dtype, error) {
	switch name {
	case "float32":
		return tensor.Float32, nil
	case "float64":
		return tensor.Float64, nil
	default:
		return tensor.Dtype{}, fmt.Errorf("unsupported float precision %q (want float32 or float64)", name)
	}
}
