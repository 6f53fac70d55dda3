package eval

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// LoadWeights reads a zstd-compressed evaluator weight file from disk
// and decodes it into a Network, using a persisted layout of:
// base-input biases, base-input weights, then per phase bucket
// (biases, weights), then per layer stack (one int32 bias followed by
// its int8 weight row for each L2 output, then the int32 output bias
// followed by the int16 output weights) — all little-endian. The base
// and phase-adaptive biases and weights are int16.
//
// A transient read failure (e.g. weights mounted on a slow or flaky
// filesystem) is retried with backoff before failing engine
// construction, matching macondo's use of retry-go for its own
// resource loading.
func LoadWeights(path string) (*Network, error) {
	var net *Network
	err := retry.Do(
		func() error {
			n, err := loadWeightsOnce(path)
			if err != nil {
				return err
			}
			net = n
			return nil
		},
		retry.Attempts(3),
		retry.Delay(50*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("path", path).Msg("retrying evaluator weight load")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("eval: failed to load weights from %q: %w", path, err)
	}
	return net, nil
}

func loadWeightsOnce(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("eval: zstd decoder: %w", err)
	}
	defer dec.Close()

	return decodeNetwork(dec)
}

func decodeNetwork(r io.Reader) (*Network, error) {
	net := &Network{}

	if err := readI16Matrix(r, net.BaseBias[:]); err != nil {
		return nil, fmt.Errorf("base bias: %w", err)
	}
	for i := range net.BaseWeights {
		if err := readI16Matrix(r, net.BaseWeights[i][:]); err != nil {
			return nil, fmt.Errorf("base weights[%d]: %w", i, err)
		}
	}

	for bucket := 0; bucket < NumPhaseBuckets; bucket++ {
		if err := readI16Matrix(r, net.PABias[bucket][:]); err != nil {
			return nil, fmt.Errorf("phase-adaptive bias[%d]: %w", bucket, err)
		}
		for i := range net.PAWeights[bucket] {
			if err := readI16Matrix(r, net.PAWeights[bucket][i][:]); err != nil {
				return nil, fmt.Errorf("phase-adaptive weights[%d][%d]: %w", bucket, i, err)
			}
		}
	}

	for s := 0; s < NumLayerStacks; s++ {
		stack := &net.Stacks[s]
		for o := 0; o < L2OutDim; o++ {
			bias, err := readI32(r)
			if err != nil {
				return nil, fmt.Errorf("stack[%d].l2Bias[%d]: %w", s, o, err)
			}
			stack.L2Bias[o] = bias
			if err := readI8Matrix(r, stack.L2Weights[o][:]); err != nil {
				return nil, fmt.Errorf("stack[%d].l2Weights[%d]: %w", s, o, err)
			}
		}
		bias, err := readI32(r)
		if err != nil {
			return nil, fmt.Errorf("stack[%d].outBias: %w", s, err)
		}
		stack.OutBias = bias
		if err := readI16Matrix(r, stack.OutWeights[:]); err != nil {
			return nil, fmt.Errorf("stack[%d].outWeights: %w", s, err)
		}
	}

	return net, nil
}

func readI16Matrix(r io.Reader, dst []int16) error {
	buf := make([]byte, 2*len(dst))
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return nil
}

func readI8Matrix(r io.Reader, dst []int8) error {
	buf := make([]byte, len(dst))
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = int8(buf[i])
	}
	return nil
}

func readI32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}
