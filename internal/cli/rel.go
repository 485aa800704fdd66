package cli

import (
	"log/slog"

	"github.com/xcc-stack/xccgen/internal/recipe"
)

// RelCmd generates a release recipe: the complete stack is built and
// installed into a single image, with sources and build trees removed.
type RelCmd struct {
	generateFlags

	MultiStage bool `help:"Build the stack in a first stage and copy only the installed artifacts into a fresh base image."`
}

func (c *RelCmd) Run() error {
	cfg, err := c.config("")
	if err != nil {
		return err
	}
	gen, err := c.generator(cfg)
	if err != nil {
		return err
	}

	slog.Debug("generating release recipe", "container", cfg.Format, "multi_stage", c.MultiStage)

	var stages []*recipe.Stage
	if c.MultiStage {
		stages, err = gen.ReleaseMultiStage()
	} else {
		var stage *recipe.Stage
		stage, err = gen.ReleaseSingleStage()
		stages = []*recipe.Stage{stage}
	}
	if err != nil {
		return err
	}

	return c.writeRecipe(recipe.Render(cfg.Format, stages...))
}
