// Package audiofile reads raw recordings from disk into mono sample vectors.
package audiofile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// AudioInfo holds the essential properties of a decoded recording.
type AudioInfo struct {
	SampleRate   int
	TotalSamples int
	NumChannels  int
	BitDepth     int
}

// GetAudioInfo returns decoder information for a WAV or FLAC file without
// decoding the sample data.
func GetAudioInfo(filePath string) (AudioInfo, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return AudioInfo{}, err
	}
	defer file.Close()

	switch ext {
	case ".wav":
		return readWAVInfo(file)
	case ".flac":
		return readFLACInfo(file)
	default:
		return AudioInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ReadMono decodes a WAV or FLAC file to a mono float64 sample vector in
// [-1, 1]. Stereo files are averaged down to one channel. If targetRate is
// non-zero and differs from the source rate the samples are resampled.
func ReadMono(filePath string, targetRate int) ([]float64, int, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	file, err := os.Open(filePath)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	var samples []float64
	var sourceRate int

	switch ext {
	case ".wav":
		samples, sourceRate, err = readWAVMono(file)
	case ".flac":
		samples, sourceRate, err = readFLACMono(file)
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, 0, err
	}

	if targetRate != 0 && targetRate != sourceRate {
		samples, err = Resample(samples, sourceRate, targetRate)
		if err != nil {
			return nil, 0, fmt.Errorf("error resampling audio: %w", err)
		}
		sourceRate = targetRate
	}

	return samples, sourceRate, nil
}

// Validate checks that the provided path is a non-empty audio file with at
// least one sample.
func Validate(filePath string) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("error accessing file %s: %w", filepath.Base(filePath), err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("the path %s is a directory, not a file", filepath.Base(filePath))
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("file %s is empty (0 bytes)", filepath.Base(filePath))
	}

	audioInfo, err := GetAudioInfo(filePath)
	if err != nil {
		return fmt.Errorf("invalid audio file %s: %w", filepath.Base(filePath), err)
	}

	if audioInfo.TotalSamples == 0 {
		return fmt.Errorf("file %s contains no samples", filepath.Base(filePath))
	}

	return nil
}

// getAudioDivisor returns the int-to-float32 conversion divisor for a bit depth.
func getAudioDivisor(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16:
		return 32768.0, nil
	case 24:
		return 8388608.0, nil
	case 32:
		return 2147483648.0, nil
	default:
		return 0, errors.New("unsupported audio file bit depth")
	}
}
