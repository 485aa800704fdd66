package cli

import (
	"log/slog"

	"github.com/xcc-stack/xccgen/internal/recipe"
	"github.com/xcc-stack/xccgen/internal/stack"
)

// DevCmd generates a development recipe. The image contains only the
// prerequisites of the stack; cling and xeus-cling are built into a host
// volume by the container runscript, so that rebuilds survive the
// container.
type DevCmd struct {
	generateFlags

	ProjectPath     string `help:"Path on the host where the runscript builds and installs cling and xeus-cling." required:"" placeholder:"PATH"`
	SecondBuildType string `help:"Build cling and xeus-cling a second time with this CMAKE_BUILD_TYPE." enum:",DEBUG,RELEASE,RELWITHDEBINFO,MINSIZEREL" default:""`
}

func (c *DevCmd) Run() error {
	cfg, err := c.config(c.SecondBuildType)
	if err != nil {
		return err
	}
	gen, err := c.generator(cfg)
	if err != nil {
		return err
	}

	slog.Debug("generating development recipe",
		"container", cfg.Format,
		"project_path", c.ProjectPath,
		"second_build_type", c.SecondBuildType)

	stage, err := gen.DevelStage(c.ProjectPath, stack.BuildType(c.SecondBuildType))
	if err != nil {
		return err
	}

	return c.writeRecipe(recipe.Render(cfg.Format, stage))
}
