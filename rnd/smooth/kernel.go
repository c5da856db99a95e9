package smooth

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Errors returned by smoothing functions.
var (
	ErrEmptyInput   = errors.New("smooth: empty input")
	ErrInvalidWidth = errors.New("smooth: kernel width must be odd and >= 1")
	ErrUnknownShape = errors.New("smooth: unknown kernel shape")
)

// Shape identifies a kernel profile.
type Shape int

const (
	Gaussian Shape = iota
	Hann
	Triangle
	Epanechnikov
)

var shapeNames = map[Shape]string{
	Gaussian:     "gaussian",
	Hann:         "hann",
	Triangle:     "triangle",
	Epanechnikov: "epanechnikov",
}

// String returns the lower-case shape name.
func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape resolves a shape by name.
func ParseShape(name string) (Shape, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// gaussAlpha matches a Gaussian that has fallen to about 1.3e-2 at the
// kernel edges.
const gaussAlpha = 2.5

func shapeAt(s Shape, x float64) float64 {
	switch s {
	case Hann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case Triangle:
		return 1 - math.Abs(2*x-1)
	case Epanechnikov:
		d := x - 0.5
		return 1 - 4*d*d
	default:
		v := (2*x - 1) * gaussAlpha
		return math.Exp(-math.Ln2 * v * v)
	}
}

// Kernel returns width normalised taps of the given shape. Taps are sampled
// strictly inside the support so that no tap is zero.
func Kernel(s Shape, width int) ([]float64, error) {
	if width < 1 || width%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if _, ok := shapeNames[s]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}

	taps := make([]float64, width)
	sum := 0.0
	for i := range taps {
		x := float64(i+1) / float64(width+1)
		taps[i] = shapeAt(s, x)
		sum += taps[i]
	}
	for i := range taps {
		taps[i] /= sum
	}
	return taps, nil
}
