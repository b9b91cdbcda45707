package cmd

import (
	"os"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/urfave/cli"
)

// Load the config file selected by the global --config flag and apply any
// command line overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}

	if ctx.GlobalIsSet("max-meshes") {
		cfg.Limits.MaxMeshes = ctx.GlobalInt("max-meshes")
	}
	if ctx.GlobalIsSet("max-triangles") {
		cfg.Limits.MaxTrianglesPerMesh = ctx.GlobalInt("max-triangles")
	}
	if ctx.GlobalIsSet("max-chunk-triangles") {
		cfg.Limits.MaxTrianglesPerChunk = ctx.GlobalInt("max-chunk-triangles")
	}
	if ctx.GlobalIsSet("workers") {
		cfg.Build.Workers = ctx.GlobalInt("workers")
	}
	if ctx.GlobalIsSet("log-file") {
		cfg.Logging.LogFile = ctx.GlobalString("log-file")
	}

	if err = cfg.Limits.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write the effective configuration to stdout.
func DumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
