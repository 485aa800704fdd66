package cli

import (
	"context"
	"fmt"
	"log/slog"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/xcc-stack/xccgen/internal/singularity"
)

// PushCmd signs an image and uploads it to a sylabs library. The image
// tag is taken from the version label baked into the image at generation
// time.
type PushCmd struct {
	Image   string `arg:"" help:"Image to push." type:"existingfile"`
	Library string `help:"Library path to push to, e.g. library://user/default/xeus-cling-cuda." required:""`
	Sign    bool   `help:"Sign the image before pushing." default:"true" negatable:""`
}

func (c *PushCmd) Run(ctx context.Context) error {
	runner := singularity.New()

	labels, err := runner.Labels(ctx, c.Image)
	if err != nil {
		return err
	}
	version, ok := labels[ocispec.AnnotationVersion]
	if !ok {
		return fmt.Errorf("%w: image %q carries no %s label",
			singularity.ErrSingularity, c.Image, ocispec.AnnotationVersion)
	}

	if c.Sign {
		slog.Info("signing image", "image", c.Image)
		if err := runner.Sign(ctx, c.Image); err != nil {
			return err
		}
	}

	uri := c.Library + ":" + version
	slog.Info("pushing image", "image", c.Image, "uri", uri)
	if err := runner.Push(ctx, c.Image, uri); err != nil {
		return err
	}
	slog.Info("image pushed", "uri", uri)

	return nil
}
