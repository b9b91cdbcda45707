package cmd

import (
	"errors"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/packer"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/reader"
	"github.com/urfave/cli"
)

// Display the contents of a compiled scene archive.
func SceneInfo(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer setupLogging(ctx, cfg).Close()

	if ctx.NArg() != 1 {
		return errors.New("missing compiled scene argument")
	}

	compiled, err := reader.ReadCompiled(ctx.Args().First())
	if err != nil {
		return err
	}

	layout := packer.NewLayout(compiled.Limits)
	logger.Noticef(
		"buffer layout: %d mesh slots x %d bytes = %d bytes (chunk record: %d bytes)",
		compiled.Limits.MaxMeshes, layout.MeshSize, layout.TotalSize, layout.ChunkSize,
	)
	logger.Noticef("scene statistics\n%s", compiled.Scene.Stats())
	if compiled.Report != "" {
		logger.Noticef("build report\n%s", compiled.Report)
	}
	return nil
}
