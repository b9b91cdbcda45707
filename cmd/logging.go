package cmd

import (
	"io"
	"os"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/log"
	"github.com/urfave/cli"
)

var logger = log.New("rtbuild")

// Apply the logging settings from the config and the global verbosity
// flags. The returned closer flushes the log file sink, if any.
func setupLogging(ctx *cli.Context, cfg *config.Config) io.Closer {
	log.SetLevel(log.ParseLevel(cfg.Logging.Level))

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	return log.SetFileSink(os.Stdout, log.DefaultFileConfig(cfg.Logging.LogFile))
}
