package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Concern selects which correction algorithm the simulation pipeline
// applies to skin pixels.
type Concern string

const (
	ConcernActiveBlemish Concern = "active_blemish"
	ConcernDarkCircle    Concern = "dark_circle"
	ConcernTexture       Concern = "texture"
	ConcernRedness       Concern = "redness"
	ConcernPigmentation  Concern = "pigmentation"
)

var ErrUnknownConcern = errors.New("unknown concern")

func ParseConcern(in string) (Concern, error) {
	switch Concern(strings.ToLower(strings.TrimSpace(in))) {
	case ConcernActiveBlemish:
		return ConcernActiveBlemish, nil
	case ConcernDarkCircle:
		return ConcernDarkCircle, nil
	case ConcernTexture:
		return ConcernTexture, nil
	case ConcernRedness:
		return ConcernRedness, nil
	case ConcernPigmentation:
		return ConcernPigmentation, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownConcern, in)
	}
}

func (c Concern) String() string {
	return string(c)
}
