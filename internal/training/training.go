// Package training runs the epoch loop of the hashtron network over a
// prepared dataset and evaluates its accuracy.
package training

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/neurlang/classifier/datasets"
	"github.com/neurlang/classifier/learning"
	"github.com/neurlang/classifier/net/feedforward"

	"github.com/0tiemWBmine0/specset-go/internal/config"
	"github.com/0tiemWBmine0/specset-go/internal/dataset"
	"github.com/0tiemWBmine0/specset-go/internal/runlog"
)

// Trainer drives the training of a network over a train and a test loader.
type Trainer struct {
	ctx   *config.Context
	net   feedforward.FeedforwardNetwork
	train *dataset.Loader
	test  *dataset.Loader
}

// NewTrainer creates a Trainer for the given network and loaders.
func NewTrainer(ctx *config.Context, net feedforward.FeedforwardNetwork, train, test *dataset.Loader) *Trainer {
	return &Trainer{
		ctx:   ctx,
		net:   net,
		train: train,
		test:  test,
	}
}

func errorAbs(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// Run executes the epoch loop. Each epoch tunes one hashtron of the network
// against the full training set, then evaluates both sets. The per-epoch
// results are returned in order and logged through the runlog package.
func (t *Trainer) Run(epochs int) ([]runlog.Epoch, error) {
	records := make([]runlog.Epoch, 0, epochs)

	for epoch := 0; epoch < epochs; epoch++ {
		start := time.Now()

		worst := epoch % t.net.Len()
		if err := t.trainWorst(worst); err != nil {
			return records, fmt.Errorf("epoch %d failed: %w", epoch, err)
		}

		trainAcc, loss, err := t.Evaluate(t.train)
		if err != nil {
			return records, fmt.Errorf("epoch %d train evaluation failed: %w", epoch, err)
		}
		testAcc, _, err := t.Evaluate(t.test)
		if err != nil {
			return records, fmt.Errorf("epoch %d test evaluation failed: %w", epoch, err)
		}

		record := runlog.New(t.ctx, epoch, trainAcc, testAcc, loss, time.Since(start))
		if err := runlog.LogEpoch(t.ctx, record); err != nil {
			return records, err
		}
		records = append(records, record)

		log.Printf("epoch %d: train %.2f%%, test %.2f%%, loss %.4f, took %v",
			epoch, trainAcc, testAcc, loss, record.ElapsedTime)
	}

	return records, nil
}

// trainWorst tallies the training set against one hashtron and solves it.
func (t *Trainer) trainWorst(worst int) error {
	var tally = new(datasets.Tally)
	tally.Init()

	t.train.Reset(true)
	for {
		batch, err := t.train.Next()
		if err != nil {
			return err
		}
		if batch == nil {
			break
		}

		wg := sync.WaitGroup{}
		for _, sample := range batch {
			wg.Add(1)
			go func(sample dataset.Sample) {
				defer wg.Done()

				var input = sample.Tensor
				var output = feedforward.SingleValue(sample.Label)

				t.net.Tally(&input, &output, worst, tally, func(i, j feedforward.FeedforwardNetworkInput) bool {
					return errorAbs(i.Feature(0), output.Feature(0)) < errorAbs(j.Feature(0), output.Feature(0))
				})
			}(sample)
		}
		wg.Wait()
	}

	var h learning.HyperParameters
	h.Threads = t.ctx.Settings.Node.Threads
	if h.Threads <= 0 {
		h.Threads = runtime.NumCPU()
	}
	h.Factor = 1 // affects the solution size

	// shuffle before solving attempts
	h.Shuffle = true
	h.Seed = true

	// restart when stuck
	h.DeadlineMs = 1000
	h.DeadlineRetry = 3

	// affects how fast is the modulo reduced
	h.Subtractor = 1

	// reduce Backtracking printing on the log
	h.Printer = 70

	h.InitialLimit = 1000 + 4*tally.Len()
	h.EndWhenSolved = true

	h.Name = fmt.Sprint(worst)
	if t.ctx.Settings.Debug {
		fmt.Println("hashtron position:", worst, "(job size:", tally.Len(), ")")
	}

	htron, err := h.Training(tally)
	if err != nil {
		return fmt.Errorf("failed to train hashtron %d: %w", worst, err)
	}
	ptr := t.net.GetHashtron(worst)
	*ptr = *htron

	tally.Free()
	runtime.GC()

	return nil
}

// Evaluate runs inference over every record of the loader and returns the
// accuracy in percent and the mean absolute class error.
func (t *Trainer) Evaluate(loader *dataset.Loader) (accuracy, loss float64, err error) {
	loader.Reset(false)

	var correct int
	var errsum uint64
	for {
		batch, err := loader.Next()
		if err != nil {
			return 0, 0, err
		}
		if batch == nil {
			break
		}

		for _, sample := range batch {
			var input = sample.Tensor
			var predicted = t.net.Infer(&input).Feature(0)
			if predicted == sample.Label {
				correct++
			}
			errsum += uint64(errorAbs(predicted, sample.Label))
		}
	}

	total := loader.Len()
	if total == 0 {
		return 0, 0, nil
	}

	return 100 * float64(correct) / float64(total), float64(errsum) / float64(total), nil
}

// SaveModel writes the network weights as zlib compressed JSON.
func (t *Trainer) SaveModel(path string) error {
	return t.net.WriteZlibWeightsToFile(path)
}

// LoadModel restores network weights saved by SaveModel.
func (t *Trainer) LoadModel(path string) error {
	return t.net.ReadZlibWeightsFromFile(path)
}
