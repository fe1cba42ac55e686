package bus

import (
	"testing"
)

func TestNewStereoConfiguration(t *testing.T) {
	config := NewStereoConfiguration()

	// Check bus counts
	if got := config.GetBusCount(DirectionInput); got != 1 {
		t.Errorf("Expected 1 audio input bus, got %d", got)
	}
	if got := config.GetBusCount(DirectionOutput); got != 1 {
		t.Errorf("Expected 1 audio output bus, got %d", got)
	}

	// Check input bus
	inBus := config.GetBusInfo(DirectionInput, 0)
	if inBus == nil {
		t.Fatal("Expected input bus to exist")
	}
	if inBus.ChannelCount != 2 {
		t.Errorf("Expected 2 input channels, got %d", inBus.ChannelCount)
	}
	if inBus.Name != "Stereo In" {
		t.Errorf("Expected input name 'Stereo In', got %s", inBus.Name)
	}

	if got := config.MainChannels(DirectionOutput); got != 2 {
		t.Errorf("Expected 2 output channels, got %d", got)
	}
}

func TestNewMonoConfiguration(t *testing.T) {
	config := NewMonoConfiguration()

	if got := config.MainChannels(DirectionInput); got != 1 {
		t.Errorf("Expected 1 input channel, got %d", got)
	}
	if got := config.MainChannels(DirectionOutput); got != 1 {
		t.Errorf("Expected 1 output channel, got %d", got)
	}
}

func TestNewConfiguration(t *testing.T) {
	tests := []struct {
		channels int32
		name     string
	}{
		{1, "Mono In"},
		{2, "Stereo In"},
		{6, "Main In"},
	}

	for _, tt := range tests {
		config := NewConfiguration(tt.channels)
		info := config.GetBusInfo(DirectionInput, 0)
		if info == nil || info.ChannelCount != tt.channels || info.Name != tt.name {
			t.Errorf("NewConfiguration(%d) input = %+v", tt.channels, info)
		}
	}
}

func TestGetBusInfoOutOfRange(t *testing.T) {
	config := NewStereoConfiguration()

	if config.GetBusInfo(DirectionInput, 1) != nil {
		t.Error("Expected nil for missing input bus")
	}
	if config.GetBusInfo(DirectionOutput, -1) != nil {
		t.Error("Expected nil for negative index")
	}
}
