package training

import (
	"fmt"

	"github.com/neurlang/classifier/layer/conv2d"
	"github.com/neurlang/classifier/layer/majpool2d"
	"github.com/neurlang/classifier/net/feedforward"
)

const (
	convKernel = 16
	poolCell   = 4
)

// NewNetwork builds the convolutional hashtron network for square grayscale
// tensors with the given side. The first layer slides a 16x16 kernel over
// the 2x2 pixel feature windows, the second majority-pools the conv output,
// and the final layer emits the class id on classBits bits.
func NewNetwork(tensorSize int, classBits byte) (feedforward.FeedforwardNetwork, error) {
	var net feedforward.FeedforwardNetwork

	l0 := tensorSize - 1
	l1 := tensorSize - convKernel
	if l1 <= 0 {
		return net, fmt.Errorf("tensor size %d is too small for a %dx%d kernel", tensorSize, convKernel, convKernel)
	}
	if l1%poolCell != 0 {
		return net, fmt.Errorf("tensor size %d leaves a %dx%d conv output not divisible by the %dx%d pooling cell", tensorSize, l1, l1, poolCell, poolCell)
	}

	net.NewLayer(l0*l0, 0)
	net.NewCombiner(conv2d.MustNew(l0, l0, convKernel, convKernel, 1))
	net.NewLayer(l1*l1, 0)
	net.NewCombiner(majpool2d.MustNew(l1/poolCell, l1/poolCell, poolCell, poolCell, 1, 1, 1))
	net.NewLayer(1, classBits)

	return net, nil
}
