// Package bus describes the audio bus layout a processor is asked to run with.
package bus

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Type represents the bus type
type Type int32

const (
	// TypeMain represents main bus
	TypeMain Type = 0
	// TypeAux represents auxiliary bus
	TypeAux Type = 1
)

// Info contains bus configuration
type Info struct {
	Direction    Direction
	ChannelCount int32
	Name         string
	BusType      Type
	IsActive     bool
}

// Configuration manages audio buses
type Configuration struct {
	audioBuses []Info
}

// NewStereoConfiguration creates a standard stereo I/O configuration
func NewStereoConfiguration() *Configuration {
	return NewBuilder().
		WithStereoInput("Stereo In").
		WithStereoOutput("Stereo Out").
		MustBuild()
}

// NewMonoConfiguration creates a mono I/O configuration
func NewMonoConfiguration() *Configuration {
	return NewBuilder().
		WithMonoInput("Mono In").
		WithMonoOutput("Mono Out").
		MustBuild()
}

// NewConfiguration creates a main in/out pair with the given channel count
func NewConfiguration(channels int32) *Configuration {
	switch channels {
	case 1:
		return NewMonoConfiguration()
	case 2:
		return NewStereoConfiguration()
	}
	return NewBuilder().
		WithAudioInput("Main In", channels).
		WithAudioOutput("Main Out", channels).
		MustBuild()
}

// GetBusCount returns the number of buses for a given direction
func (c *Configuration) GetBusCount(direction Direction) int32 {
	count := int32(0)
	for _, bus := range c.audioBuses {
		if bus.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(direction Direction, index int32) *Info {
	busIndex := int32(0)
	for i := range c.audioBuses {
		if c.audioBuses[i].Direction == direction {
			if busIndex == index {
				return &c.audioBuses[i]
			}
			busIndex++
		}
	}
	return nil
}

// MainChannels returns the channel count of the first active main bus in the
// given direction, or 0 if there is none.
func (c *Configuration) MainChannels(direction Direction) int32 {
	for _, bus := range c.audioBuses {
		if bus.Direction == direction && bus.BusType == TypeMain && bus.IsActive {
			return bus.ChannelCount
		}
	}
	return 0
}

// HasActiveAux reports whether any auxiliary bus is active
func (c *Configuration) HasActiveAux() bool {
	for _, bus := range c.audioBuses {
		if bus.BusType == TypeAux && bus.IsActive {
			return true
		}
	}
	return false
}
