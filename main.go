package main

import (
	"fmt"
	"os"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/cmd"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := config.Default()

	app := cli.NewApp()
	app.Name = "rtbuild"
	app.Usage = "build bounding volume data and GPU buffers for ray traced scenes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load settings from a YAML config file",
		},
		cli.IntFlag{
			Name:  "max-meshes",
			Value: defaults.Limits.MaxMeshes,
			Usage: "number of mesh slots in the packed buffer",
		},
		cli.IntFlag{
			Name:  "max-triangles",
			Value: defaults.Limits.MaxTrianglesPerMesh,
			Usage: "max triangles per mesh",
		},
		cli.IntFlag{
			Name:  "max-chunk-triangles",
			Value: defaults.Limits.MaxTrianglesPerChunk,
			Usage: "max triangles per octant",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of meshes built in parallel (0 = number of CPUs)",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write logs to a rotating log file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile a scene manifest into a packed GPU buffer",
			Description: `
Load the meshes listed in a YAML/TOML scene manifest (or a single wavefront obj
file), build a bounding box and octant hierarchy for each mesh and pack the
result into the fixed-size buffer layout expected by the ray tracing shaders.

The packed buffer is written to a zip archive together with the limits used to
lay it out and a build report.`,
			ArgsUsage: "scene.yaml",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output archive (defaults to the manifest name with a .zip extension)",
				},
			},
			Action: cmd.CompileScene,
		},
		{
			Name:      "info",
			Usage:     "display the contents of a compiled scene archive",
			ArgsUsage: "scene.zip",
			Action:    cmd.SceneInfo,
		},
		{
			Name:   "dump-config",
			Usage:  "print the effective configuration as YAML",
			Action: cmd.DumpConfig,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
