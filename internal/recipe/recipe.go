package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// Target recipe formats.
const (
	Docker      Format = "docker"
	Singularity Format = "singularity"
)

// Identifies the output format of a rendered recipe.
type Format string

var ErrFormat = errors.New("unknown container format")

// Parses a container format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case Docker:
		return Docker, nil
	case Singularity:
		return Singularity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// One phase of a container build: a base image plus an ordered,
// append-only instruction list.
type Stage struct {
	Name         string // Stage name for cross-stage references. Optional.
	Image        string // Base image reference.
	instructions []Instruction
}

// Creates a stage based on the given image. The name may be empty for
// single-stage recipes.
func NewStage(name, image string) *Stage {
	return &Stage{Name: name, Image: image}
}

// Appends instructions to the stage in order.
func (s *Stage) Add(in ...Instruction) {
	s.instructions = append(s.instructions, in...)
}

// Returns the number of instructions in the stage, excluding the base
// image header.
func (s *Stage) Len() int {
	return len(s.instructions)
}

// Returns the stage's instruction list. The caller must not modify it.
func (s *Stage) Instructions() []Instruction {
	return s.instructions
}

// Renders the stage in the given format.
func (s *Stage) Render(f Format) string {
	var w strings.Builder

	if f == Docker {
		w.WriteString("FROM " + s.Image)
		if s.Name != "" {
			w.WriteString(" AS " + s.Name)
		}
		w.WriteString("\n")
	} else {
		w.WriteString("BootStrap: docker\n")
		w.WriteString("From: " + s.Image + "\n")
		if s.Name != "" {
			w.WriteString("Stage: " + s.Name + "\n")
		}
	}

	for _, in := range s.instructions {
		w.WriteString("\n")
		if f == Docker {
			in.docker(&w)
		} else {
			in.singularity(&w)
		}
	}

	return w.String()
}

// Renders one or more stages into a single recipe document.
func Render(f Format, stages ...*Stage) string {
	parts := make([]string, 0, len(stages))
	for _, s := range stages {
		parts = append(parts, s.Render(f))
	}
	return strings.Join(parts, "\n")
}
