package process

// NumChannels returns the minimum of input and output channels, ignoring
// channels without samples
func (c *Context) NumChannels() int {
	numChannels := min(c.NumInputChannels(), c.NumOutputChannels())
	for ch := 0; ch < numChannels; ch++ {
		if len(c.Input[ch]) == 0 || len(c.Output[ch]) == 0 {
			return ch
		}
	}
	return numChannels
}

// Slice points dst at samples [from, to) of the context's buffers. dst
// keeps its own channel slices so no allocation happens once they exist.
func (c *Context) Slice(dst *Context, from, to int) {
	dst.SampleRate = c.SampleRate
	dst.params = c.params
	dst.Input = sliceChannels(dst.Input, c.Input, from, to)
	dst.Output = sliceChannels(dst.Output, c.Output, from, to)
	if len(dst.workBuffer) < to-from {
		dst.workBuffer = c.workBuffer
		dst.tempBuffer = c.tempBuffer
	}
}

func sliceChannels(dst, src [][]float32, from, to int) [][]float32 {
	dst = dst[:0]
	for _, ch := range src {
		dst = append(dst, ch[from:to])
	}
	return dst
}
