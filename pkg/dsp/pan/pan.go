// Package pan provides the call-position stereo post-pass.
package pan

// Position is where the listener hears the call from.
type Position int

const (
	// Center leaves the stereo image untouched
	Center Position = iota
	// LeftEar is a handset held to the left ear
	LeftEar
	// RightEar is a handset held to the right ear
	RightEar
	// SpeakerNear is speakerphone at arm's length
	SpeakerNear
	// SpeakerFar is speakerphone across the room
	SpeakerFar
	// BluetoothLeft is a headset in the left ear
	BluetoothLeft
	// BluetoothRight is a headset in the right ear
	BluetoothRight

	// NumPositions is the number of positions.
	NumPositions = int(BluetoothRight) + 1
)

var positionNames = [NumPositions]string{
	"Center",
	"Left Ear",
	"Right Ear",
	"Speaker Near",
	"Speaker Far",
	"Bluetooth Left",
	"Bluetooth Right",
}

// Names returns the display names in Position order.
func Names() []string {
	return positionNames[:]
}

func (p Position) String() string {
	if p < 0 || int(p) >= NumPositions {
		return "Unknown"
	}
	return positionNames[p]
}

// Matrix maps an input pair to an output pair:
// left' = m[0][0]*left + m[0][1]*right, right' = m[1][0]*left + m[1][1]*right.
type Matrix [2][2]float32

// Identity passes both channels through.
var Identity = Matrix{{1, 0}, {0, 1}}

// EarBleed is the far-channel level of a handset held to one ear, relative
// to the near channel.
const EarBleed = 0.2

// BluetoothBleed is the far-channel level of a single-ear headset.
const BluetoothBleed = 0.1

var matrices = [NumPositions]Matrix{
	Center:         Identity,
	LeftEar:        {{0.5, 0.5}, {0.5 * EarBleed, 0.5 * EarBleed}},
	RightEar:       {{0.5 * EarBleed, 0.5 * EarBleed}, {0.5, 0.5}},
	SpeakerNear:    {{0.75, 0.25}, {0.25, 0.75}},
	SpeakerFar:     {{0.35, 0.25}, {0.25, 0.35}},
	BluetoothLeft:  {{0.5, 0.5}, {0.5 * BluetoothBleed, 0.5 * BluetoothBleed}},
	BluetoothRight: {{0.5 * BluetoothBleed, 0.5 * BluetoothBleed}, {0.5, 0.5}},
}

// Matrix returns the mix matrix of p. Unknown positions map to Identity.
func (p Position) Matrix() Matrix {
	if p < 0 || int(p) >= NumPositions {
		return Identity
	}
	return matrices[p]
}

// IsIdentity reports whether m leaves samples untouched.
func (m Matrix) IsIdentity() bool {
	return m == Identity
}

// Mix applies m to one sample pair.
func (m Matrix) Mix(left, right float32) (float32, float32) {
	return m[0][0]*left + m[0][1]*right, m[1][0]*left + m[1][1]*right
}

// Apply mixes left and right in place over their common length.
func Apply(left, right []float32, m Matrix) {
	length := min(len(left), len(right))
	for i := 0; i < length; i++ {
		left[i], right[i] = m.Mix(left[i], right[i])
	}
}
