package pitch

// noiseFloor is the negative threshold a sample must cross to pull the
// binarized level low. Samples in (noiseFloor, 0] keep the current level.
const noiseFloor = -100

// ZeroCross is a Schmitt-trigger binarizer for signed 16-bit samples.
// The zero value starts low.
type ZeroCross struct {
	level bool
}

// Next feeds one sample and returns the resulting level.
func (z *ZeroCross) Next(s int16) bool {
	switch {
	case s < noiseFloor:
		z.level = false
	case s > 0:
		z.level = true
	}

	return z.level
}

// Level returns the current level without consuming a sample.
func (z *ZeroCross) Level() bool { return z.level }

// Reset returns the binarizer to the low level.
func (z *ZeroCross) Reset() { z.level = false }
