package batch

import (
	"iter"

	"mini2d/internal/gpu"
)

// SlotTable maps sampler slots to textures for the current batch. Slot 0 is
// reserved for untextured vertices and is never assigned.
type SlotTable struct {
	textures [MaxTextureSlots]gpu.TextureID
}

// Set stores tex at slot. Slots outside 1..7 and zero handles are rejected
// without touching the table.
func (t *SlotTable) Set(slot int, tex gpu.TextureID) error {
	if slot < 1 || slot >= MaxTextureSlots {
		return ErrInvalidSlot
	}
	if tex == 0 {
		return ErrNilTexture
	}
	t.textures[slot] = tex
	return nil
}

// Acquire returns the slot already holding tex, or claims the first empty one.
func (t *SlotTable) Acquire(tex gpu.TextureID) (int, error) {
	if tex == 0 {
		return 0, ErrNilTexture
	}
	free := 0
	for i := 1; i < MaxTextureSlots; i++ {
		switch t.textures[i] {
		case tex:
			return i, nil
		case 0:
			if free == 0 {
				free = i
			}
		}
	}
	if free == 0 {
		return 0, ErrSlotsExhausted
	}
	t.textures[free] = tex
	return free, nil
}

// Get returns the texture bound at slot, or 0.
func (t *SlotTable) Get(slot int) gpu.TextureID {
	if slot < 0 || slot >= MaxTextureSlots {
		return 0
	}
	return t.textures[slot]
}

// Used counts the occupied slots in 1..7.
func (t *SlotTable) Used() int {
	n := 0
	for i := 1; i < MaxTextureSlots; i++ {
		if t.textures[i] != 0 {
			n++
		}
	}
	return n
}

// Bound yields every occupied slot in 1..7 with its texture.
func (t *SlotTable) Bound() iter.Seq2[int, gpu.TextureID] {
	return func(yield func(int, gpu.TextureID) bool) {
		for i := 1; i < MaxTextureSlots; i++ {
			if t.textures[i] == 0 {
				continue
			}
			if !yield(i, t.textures[i]) {
				return
			}
		}
	}
}

// Samplers builds the sampler-array uniform: slot i maps to unit i when
// bound, every other entry stays 0.
func (t *SlotTable) Samplers() [MaxTextureSlots]int32 {
	var out [MaxTextureSlots]int32
	for i := 1; i < MaxTextureSlots; i++ {
		if t.textures[i] != 0 {
			out[i] = int32(i)
		}
	}
	return out
}

// Reset leaves only slot 0 (untextured).
func (t *SlotTable) Reset() {
	t.textures = [MaxTextureSlots]gpu.TextureID{}
}
