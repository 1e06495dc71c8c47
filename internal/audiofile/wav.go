package audiofile

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// readBufferSize is the PCM buffer size used while decoding, in frames.
const readBufferSize = 65536

func readWAVInfo(file *os.File) (AudioInfo, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return AudioInfo{}, errors.New("invalid WAV file format")
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		return AudioInfo{}, fmt.Errorf("unsupported bit depth: %d", decoder.BitDepth)
	}

	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		return AudioInfo{}, fmt.Errorf("unsupported number of channels: %d", decoder.NumChans)
	}

	// Get file size in bytes
	fileInfo, err := file.Stat()
	if err != nil {
		return AudioInfo{}, err
	}

	// Calculate total samples from the data size
	bytesPerSample := int(decoder.BitDepth / 8)
	totalSamples := int(fileInfo.Size()) / bytesPerSample / int(decoder.NumChans)

	return AudioInfo{
		SampleRate:   int(decoder.SampleRate),
		TotalSamples: totalSamples,
		NumChannels:  int(decoder.NumChans),
		BitDepth:     int(decoder.BitDepth),
	}, nil
}

func readWAVMono(file *os.File) ([]float64, int, error) {
	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, 0, errors.New("input is not a valid WAV audio file")
	}

	divisor, err := getAudioDivisor(int(decoder.BitDepth))
	if err != nil {
		return nil, 0, err
	}

	channels := int(decoder.NumChans)
	if channels != 1 && channels != 2 {
		return nil, 0, fmt.Errorf("unsupported number of channels: %d", channels)
	}

	buf := &audio.IntBuffer{
		Data:   make([]int, readBufferSize*channels),
		Format: &audio.Format{SampleRate: int(decoder.SampleRate), NumChannels: channels},
	}

	var out []float64
	for {
		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, 0, err
		}

		// If no data is read, we've reached the end of the file
		if n == 0 {
			break
		}

		data := buf.Data[:n]
		for i := 0; i+channels <= len(data); i += channels {
			var sample float64
			for c := 0; c < channels; c++ {
				sample += float64(data[i+c]) / divisor
			}
			out = append(out, sample/float64(channels))
		}
	}

	return out, int(decoder.SampleRate), nil
}
