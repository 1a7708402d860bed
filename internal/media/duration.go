// Package media probes uploaded audio. Only duration extraction lives here;
// tagging and transcoding stay with the media host.
package media

import (
	"bytes"
	"fmt"

	mp3 "github.com/hajimehoshi/go-mp3"

	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
)

// bytesPerSample is two 16-bit channels, the decoder's fixed output format.
const bytesPerSample = 4

// DurationSeconds decodes the mp3 stream headers and derives the track
// length from the decoded PCM size. Used when an upload does not state its
// duration explicitly.
func DurationSeconds(raw []byte) (float64, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: decode audio: %v", apperrors.ErrInvalidArgument, err)
	}
	length := dec.Length()
	if length <= 0 {
		return 0, fmt.Errorf("%w: audio length not determinable", apperrors.ErrInvalidArgument)
	}
	samples := length / bytesPerSample
	return float64(samples) / float64(dec.SampleRate()), nil
}
