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

//go:build !nosound

package audio

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
)

// Tone plays a sine wave through the system audio device while the sound
// timer runs.
type Tone struct {
	mu      sync.Mutex
	ctx     *oto.Context
	player  *oto.Player
	playing bool
}

func NewTone(freq int) (*Tone, error) {
	if freq <= 0 {
		freq = DefaultTone
	}

	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)

	if err != nil {
		return nil, errors.Wrap(err, "audio device")
	}

	<-ready

	player := ctx.NewPlayer(NewSine(freq, SampleRate))
	// About 25ms of samples, so the buzzer stops promptly
	player.SetBufferSize(SampleRate * sampleBytes / 40)

	return &Tone{ctx: ctx, player: player}, nil
}

func (t *Tone) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.player != nil && !t.playing {
		t.player.Play()
		t.playing = true
	}
}

func (t *Tone) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.player != nil && t.playing {
		t.player.Pause()
		t.playing = false
	}
}

func (t *Tone) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.player == nil {
		return nil
	}

	err := t.player.Close()
	t.player = nil
	t.playing = false

	return errors.Wrap(err, "close audio")
}
