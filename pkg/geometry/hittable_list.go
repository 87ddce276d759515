package geometry

import (
	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/material"
)

// HittableList is an ordered collection of shapes scanned linearly
type HittableList struct {
	Shapes []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	return &HittableList{Shapes: append([]Shape(nil), shapes...)}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Clear removes every shape
func (l *HittableList) Clear() {
	l.Shapes = nil
}

// Len returns the number of shapes
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit returns the closest intersection across all shapes. Each shape is
// queried with the upper bound shrunk to the closest t found so far, so on an
// exact tie the earlier shape wins.
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval) (material.HitRecord, bool) {
	var closest material.HitRecord
	hitAnything := false
	closestSoFar := rayT.Max

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, core.NewInterval(rayT.Min, closestSoFar)); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closest = hit
		}
	}

	return closest, hitAnything
}
