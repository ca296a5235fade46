package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry maps component types to storage factories. Each Storage
// owns its own registry, so independent worlds never share type state.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentColumn
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentColumn),
	}
}

// RegisterComponent registers the component type T with the registry. Every
// component type must be registered before an entity carrying it is spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() componentColumn {
		return &column[T]{}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentColumn {
	return r.factories[t]
}

// componentColumn is a type-erased slot store for one component type within
// one archetype. Indices are stable until Compact is called.
type componentColumn interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Compact() map[int]int
	Iter() iter.Seq[int]
}

const columnBlockSize = 64

// column stores components of type T in fixed-size blocks with a free list.
// Deleted slots are zeroed and reused; Compact squeezes out the holes.
type column[T any] struct {
	blocks    [][columnBlockSize]T
	filled    [][columnBlockSize]bool
	freeSlots []int
	nextIndex int
}

func (c *column[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	index := c.nextIndex
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		c.nextIndex++
	}

	blockIdx, slotIdx := index/columnBlockSize, index%columnBlockSize
	if blockIdx >= len(c.blocks) {
		c.blocks = append(c.blocks, [columnBlockSize]T{})
		c.filled = append(c.filled, [columnBlockSize]bool{})
	}
	c.blocks[blockIdx][slotIdx] = value
	c.filled[blockIdx][slotIdx] = true
	return index
}

func (c *column[T]) Get(index int) any {
	if index < 0 {
		return nil
	}
	blockIdx, slotIdx := index/columnBlockSize, index%columnBlockSize
	if blockIdx >= len(c.blocks) || !c.filled[blockIdx][slotIdx] {
		return nil
	}
	return &c.blocks[blockIdx][slotIdx]
}

func (c *column[T]) Delete(index int) {
	if index < 0 {
		return
	}
	blockIdx, slotIdx := index/columnBlockSize, index%columnBlockSize
	if blockIdx >= len(c.blocks) || !c.filled[blockIdx][slotIdx] {
		return
	}
	var zero T
	c.blocks[blockIdx][slotIdx] = zero
	c.filled[blockIdx][slotIdx] = false
	c.freeSlots = append(c.freeSlots, index)
}

func (c *column[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	blockIdx, slotIdx := index/columnBlockSize, index%columnBlockSize
	return blockIdx < len(c.blocks) && c.filled[blockIdx][slotIdx]
}

// Compact rewrites the column without holes and returns the old→new index
// mapping for the slots that moved.
func (c *column[T]) Compact() map[int]int {
	indexMap := make(map[int]int)

	live := c.nextIndex - len(c.freeSlots)
	if live <= 0 {
		c.blocks = make([][columnBlockSize]T, 1)
		c.filled = make([][columnBlockSize]bool, 1)
		c.freeSlots = nil
		c.nextIndex = 0
		return indexMap
	}

	numBlocks := (live + columnBlockSize - 1) / columnBlockSize
	newBlocks := make([][columnBlockSize]T, numBlocks)
	newFilled := make([][columnBlockSize]bool, numBlocks)

	writePos := 0
	for readIdx := 0; readIdx < c.nextIndex; readIdx++ {
		readBlock, readSlot := readIdx/columnBlockSize, readIdx%columnBlockSize
		if !c.filled[readBlock][readSlot] {
			continue
		}
		indexMap[readIdx] = writePos
		writeBlock, writeSlot := writePos/columnBlockSize, writePos%columnBlockSize
		newBlocks[writeBlock][writeSlot] = c.blocks[readBlock][readSlot]
		newFilled[writeBlock][writeSlot] = true
		writePos++
	}

	c.blocks = newBlocks
	c.filled = newFilled
	c.freeSlots = nil
	c.nextIndex = writePos
	return indexMap
}

func (c *column[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.nextIndex; i++ {
			blockIdx, slotIdx := i/columnBlockSize, i%columnBlockSize
			if blockIdx >= len(c.filled) || !c.filled[blockIdx][slotIdx] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
