package cmd

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/compiler"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/compiler/input"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/packer"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/writer"
	"github.com/urfave/cli"
)

// Compile a scene manifest (or a single mesh file) into a packed scene archive.
func CompileScene(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer setupLogging(ctx, cfg).Close()

	if ctx.NArg() != 1 {
		return errors.New("missing scene manifest argument")
	}
	manifestFile := ctx.Args().First()

	outFile := ctx.String("out")
	if outFile == "" {
		outFile = strings.TrimSuffix(filepath.Base(manifestFile), filepath.Ext(manifestFile)) + ".zip"
	}

	res, err := asset.NewResource(manifestFile, nil)
	if err != nil {
		return err
	}
	defer res.Close()

	manifest, err := input.Load(res)
	if err != nil {
		return err
	}

	sc, report, err := compiler.Compile(manifest, cfg.Limits, compiler.Options{
		Workers: cfg.Build.WorkerCount(),
	})
	if err != nil {
		return err
	}

	buffers, err := packer.Pack(sc, cfg.Limits)
	if err != nil {
		return err
	}

	if err = writer.WriteScene(buffers, report, outFile); err != nil {
		return err
	}

	logger.Noticef("build report\n%s", report)
	return nil
}
