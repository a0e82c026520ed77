// Package main provides the RegionOps CLI.
package main

import (
	"fmt"
	"os"

	"github.com/regionops-ml/regionops/backend/cpu"
	"github.com/regionops-ml/regionops/roialign"
	"github.com/regionops-ml/regionops/tensor"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("RegionOps %s\n", version)
			return
		case "demo":
			if err := demo(); err != nil {
				fmt.Fprintln(os.Stderr, "demo failed:", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("RegionOps - ROI-Align spatial pooling for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Pool a 4x4 feature map through a 2x2 ROI-Align")
}

// demo runs ROI-Align over a 4x4 feature map holding 0..15 row-major with a
// single full-map ROI, 2x2 output and a single sample per bin, then prints
// the pooled values and the gradient of their sum.
func demo() error {
	backend := cpu.New()

	features := make([]float32, 16)
	for i := range features {
		features[i] = float32(i)
	}
	x, err := tensor.FromSlice(features, tensor.Shape{1, 1, 4, 4}, tensor.CPU)
	if err != nil {
		return err
	}
	rois, err := tensor.FromSlice([]float32{0, 0, 0, 4, 4}, tensor.Shape{1, 5}, tensor.CPU)
	if err != nil {
		return err
	}

	cfg, err := roialign.NewConfig(2, 2, 1.0, 1)
	if err != nil {
		return err
	}
	op, err := roialign.New(cfg, backend)
	if err != nil {
		return err
	}

	pooled, err := op.Forward(x, rois)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", op)
	fmt.Printf("pooled: %v\n", pooled.AsFloat32())

	ones, err := tensor.Full[float32](pooled.Shape(), 1, tensor.CPU)
	if err != nil {
		return err
	}
	grad, err := op.Backward(ones)
	if err != nil {
		return err
	}
	fmt.Printf("d(sum)/d(features): %v\n", grad.AsFloat32())
	return nil
}
