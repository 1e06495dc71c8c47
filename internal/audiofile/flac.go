package audiofile

import (
	"errors"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

func readFLACInfo(file *os.File) (AudioInfo, error) {
	stream, err := flac.Parse(file)
	if err != nil {
		return AudioInfo{}, err
	}

	info := stream.Info
	if info == nil {
		return AudioInfo{}, errors.New("FLAC stream has no stream info block")
	}

	return AudioInfo{
		SampleRate:   int(info.SampleRate),
		TotalSamples: int(info.NSamples),
		NumChannels:  int(info.NChannels),
		BitDepth:     int(info.BitsPerSample),
	}, nil
}

func readFLACMono(file *os.File) ([]float64, int, error) {
	stream, err := flac.Parse(file)
	if err != nil {
		return nil, 0, err
	}

	info := stream.Info
	if info == nil {
		return nil, 0, errors.New("FLAC stream has no stream info block")
	}

	divisor, err := getAudioDivisor(int(info.BitsPerSample))
	if err != nil {
		return nil, 0, err
	}
	channels := int(info.NChannels)

	var out []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, 0, err
		}

		if len(frame.Subframes) == 0 {
			continue
		}

		// Average all channels into a mono signal
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			var sample float64
			for c := 0; c < channels && c < len(frame.Subframes); c++ {
				sample += float64(frame.Subframes[c].Samples[i]) / divisor
			}
			out = append(out, sample/float64(channels))
		}
	}

	return out, int(info.SampleRate), nil
}
