package reader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/packer"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/writer"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/config"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/log"
	"gopkg.in/yaml.v3"
)

// A compiled scene loaded from an archive.
type Compiled struct {
	Scene  *scene.Scene
	Limits config.Limits

	// Build report text; empty if the archive does not include one.
	Report string
}

type zipSceneReader struct {
	logger log.Logger
}

// Create a new zip scene reader.
func newZipSceneReader() *zipSceneReader {
	return &zipSceneReader{
		logger: log.New("zip reader"),
	}
}

// Read a compiled scene archive from a local file or http(s) URL.
func ReadCompiled(filename string) (*Compiled, error) {
	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return newZipSceneReader().Read(res)
}

// Read compiled scene from zip file.
func (p *zipSceneReader) Read(sceneRes *asset.Resource) (*Compiled, error) {
	p.logger.Noticef(`loading compiled scene from "%s"`, sceneRes.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(sceneRes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scene.ErrAssetUnreadable, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", scene.ErrAssetUnreadable, err)
	}

	var (
		out        = &Compiled{}
		sceneData  []byte
		haveLimits bool
	)
	for _, f := range zr.File {
		switch f.Name {
		case writer.DataFile, writer.LimitsFile, writer.ReportFile:
		default:
			p.logger.Warningf("unknown file %s in scene zip file; skipping", f.Name)
			continue
		}

		payload, err := readZipEntry(f)
		if err != nil {
			return nil, fmt.Errorf("zipSceneReader: failed to load %s: %w", f.Name, err)
		}

		switch f.Name {
		case writer.DataFile:
			sceneData = payload
		case writer.LimitsFile:
			if err = yaml.Unmarshal(payload, &out.Limits); err != nil {
				return nil, fmt.Errorf("zipSceneReader: failed to load %s: %w: %s", f.Name, scene.ErrMalformedRecord, err)
			}
			haveLimits = true
		case writer.ReportFile:
			out.Report = string(payload)
		}
	}

	if sceneData == nil || !haveLimits {
		return nil, fmt.Errorf("%w: archive must contain %s and %s", scene.ErrMalformedRecord, writer.DataFile, writer.LimitsFile)
	}

	if out.Scene, err = packer.Unpack(sceneData, out.Limits); err != nil {
		return nil, err
	}

	p.logger.Noticef("loaded compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return out, nil
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
