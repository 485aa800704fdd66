package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xcc-stack/xccgen/internal/paths"
	"github.com/xcc-stack/xccgen/internal/singularity"
)

// BuildCmd builds a singularity image from a generated definition file.
type BuildCmd struct {
	Definition string `arg:"" help:"Generated singularity definition file." type:"existingfile"`
	Image      string `help:"Path of the image to build (default: under the image cache)." placeholder:"PATH" type:"path"`
	Fakeroot   bool   `help:"Build with --fakeroot instead of requiring root." default:"true" negatable:""`
}

func (c *BuildCmd) Run(ctx context.Context) error {
	image := c.Image
	if image == "" {
		dir := paths.Images()
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return err
		}
		base := filepath.Base(c.Definition)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		image = filepath.Join(dir, base+".sif")
	}

	runner := singularity.New()
	version, err := runner.Version(ctx)
	if err != nil {
		return err
	}
	slog.Debug("singularity found", "version", version)

	slog.Info("building image", "definition", c.Definition, "image", image, "fakeroot", c.Fakeroot)
	if err := runner.Build(ctx, image, c.Definition, c.Fakeroot); err != nil {
		return err
	}
	slog.Info("image built", "image", image)

	return nil
}
