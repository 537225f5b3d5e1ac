package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
)

func calculateRatio(ratio string) (float32, error) {
	if num, err := strconv.ParseFloat(ratio, 32); err == nil {
		return float32(num), err
	}

	f := strings.Split(ratio, "/")
	if len(f) == 2 {
		num, err := strconv.ParseFloat(f[0], 32)
		if err != nil {
			return 0, err
		}

		den, err := strconv.ParseFloat(f[1], 32)
		if err != nil {
			return 0, err
		}
		if den == 0 {
			return 0, fmt.Errorf("%s: division by zero", ratio)
		}

		return float32(num) / float32(den), nil
	}

	return 0, fmt.Errorf("%s: invalid float", ratio)
}

func parsePane(p Pane) (layout.Pane, error) {
	x, err := calculateRatio(p.X)
	if err != nil {
		return layout.Pane{}, fmt.Errorf("x=%w", err)
	}

	y, err := calculateRatio(p.Y)
	if err != nil {
		return layout.Pane{}, fmt.Errorf("y=%w", err)
	}

	w, err := calculateRatio(p.W)
	if err != nil {
		return layout.Pane{}, fmt.Errorf("w=%w", err)
	}

	h, err := calculateRatio(p.H)
	if err != nil {
		return layout.Pane{}, fmt.Errorf("h=%w", err)
	}

	return layout.Pane{X: x, Y: y, W: w, H: h}, nil
}
