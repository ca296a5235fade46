package ecs_test

// Shared component types for the ecs package tests.

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Health struct {
	Current, Max float32
}

type Tag struct{}
