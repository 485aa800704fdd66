// Package singularity drives the external singularity binary.
//
// Recipe generation itself never shells out; this package backs the CLI
// commands that hand a generated definition file to a real container
// toolchain: build, sign, inspect, and push. Every operation is a single
// singularity invocation with captured output.
package singularity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

var (
	ErrSingularity  = errors.New("singularity command failed")
	ErrNotInstalled = errors.New("singularity is not installed")
)

// Invokes the singularity binary.
type Runner struct {
	binary string
}

// Creates a runner using the singularity binary from PATH.
func New() *Runner {
	return &Runner{binary: "singularity"}
}

// Output of a singularity invocation.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runs singularity with the given arguments and captures its output.
// A non-zero exit code is not treated as an error; the caller decides.
func (r *Runner) run(ctx context.Context, args ...string) (*ExecResult, error) {
	slog.Debug("exec", "binary", r.binary, "args", args)

	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			if errors.Is(err, exec.ErrNotFound) {
				return nil, fmt.Errorf("%w: %w", ErrNotInstalled, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrSingularity, err)
		}
	}

	return &ExecResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// Runs singularity and fails on a non-zero exit code.
func (r *Runner) runChecked(ctx context.Context, args ...string) (*ExecResult, error) {
	result, err := r.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("%w: %s: exit code %d: %s",
			ErrSingularity, strings.Join(args, " "), result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result, nil
}

// Returns the installed singularity version.
func (r *Runner) Version(ctx context.Context) (string, error) {
	result, err := r.runChecked(ctx, "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}

// Builds an image from a definition file.
func (r *Runner) Build(ctx context.Context, image, definition string, fakeroot bool) error {
	slog.Info("building image", "image", image, "definition", definition, "fakeroot", fakeroot)
	_, err := r.runChecked(ctx, buildArgs(image, definition, fakeroot)...)
	return err
}

// Signs an image with the default PGP key.
func (r *Runner) Sign(ctx context.Context, image string) error {
	slog.Info("signing image", "image", image)
	_, err := r.runChecked(ctx, "sign", image)
	return err
}

// Returns the labels baked into an image.
func (r *Runner) Labels(ctx context.Context, image string) (map[string]string, error) {
	result, err := r.runChecked(ctx, "inspect", "--json", image)
	if err != nil {
		return nil, err
	}

	var inspect struct {
		Data struct {
			Attributes struct {
				Labels map[string]string `json:"labels"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &inspect); err != nil {
		return nil, fmt.Errorf("%w: parsing inspect output: %w", ErrSingularity, err)
	}

	return inspect.Data.Attributes.Labels, nil
}

// Pushes an image to a library URI.
func (r *Runner) Push(ctx context.Context, image, uri string) error {
	slog.Info("pushing image", "image", image, "uri", uri)
	_, err := r.runChecked(ctx, pushArgs(image, uri)...)
	return err
}

func buildArgs(image, definition string, fakeroot bool) []string {
	args := []string{"build"}
	if fakeroot {
		args = append(args, "--fakeroot")
	}
	return append(args, image, definition)
}

func pushArgs(image, uri string) []string {
	return []string{"push", image, uri}
}
