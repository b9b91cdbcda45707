package writer

import (
	"archive/zip"
	"fmt"
	"os"
	"time"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/packer"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/log"
	"gopkg.in/yaml.v3"
)

// Entries stored in a compiled scene archive.
const (
	DataFile   = "scene.bin"
	LimitsFile = "limits.yaml"
	ReportFile = "report.txt"
)

type zipSceneWriter struct {
	logger   log.Logger
	filename string
}

// Create a new zip scene writer.
func newZipSceneWriter(filename string) *zipSceneWriter {
	return &zipSceneWriter{
		logger:   log.New("zip writer"),
		filename: filename,
	}
}

// Write the static scene buffer, the limits required to decode it and the
// optional build report.
func (w *zipSceneWriter) Write(buffers *packer.Buffers, report fmt.Stringer) error {
	w.logger.Noticef(`writing compiled scene to "%s"`, w.filename)
	start := time.Now()

	limits, err := yaml.Marshal(buffers.Layout.Limits)
	if err != nil {
		return err
	}

	entries := []struct {
		name string
		data []byte
	}{
		{DataFile, buffers.Static},
		{LimitsFile, limits},
	}
	if report != nil {
		entries = append(entries, struct {
			name string
			data []byte
		}{ReportFile, []byte(report.String())})
	}

	f, err := os.Create(w.filename)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		fw, err := zw.Create(entry.name)
		if err != nil {
			return fmt.Errorf("zipSceneWriter: could not create %s: %w", entry.name, err)
		}
		if _, err = fw.Write(entry.data); err != nil {
			return fmt.Errorf("zipSceneWriter: could not write %s: %w", entry.name, err)
		}
	}
	if err = zw.Close(); err != nil {
		return err
	}

	w.logger.Noticef("wrote compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return f.Close()
}
