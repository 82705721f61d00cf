// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package audio provides the buzzer the sound timer drives.
package audio

import (
	"encoding/binary"
	"math"
)

const (
	SampleRate  = 44100
	DefaultTone = 900

	// Bytes per mono float32 sample
	sampleBytes = 4
)

// Silent is a sink that never makes a sound.
type Silent struct{}

func (Silent) Play()  {}
func (Silent) Pause() {}

// Sine is an endless mono sine wave encoded as little endian float32
// samples.
type Sine struct {
	step   float64
	phase  float64
	Volume float32
}

func NewSine(freq, sampleRate int) *Sine {
	return &Sine{
		step:   2 * math.Pi * float64(freq) / float64(sampleRate),
		Volume: 0.2,
	}
}

func (s *Sine) Read(p []byte) (int, error) {
	n := len(p) / sampleBytes * sampleBytes

	for i := 0; i < n; i += sampleBytes {
		sample := s.Volume * float32(math.Sin(s.phase))
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(sample))

		s.phase += s.step
		if s.phase >= 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}

	return n, nil
}
