package writer

import (
	"fmt"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene/packer"
)

// The Writer interface is implemented by all compiled scene writers.
type Writer interface {
	// Write a packed scene together with its build report.
	Write(buffers *packer.Buffers, report fmt.Stringer) error
}

// Write a packed scene to a zip archive.
func WriteScene(buffers *packer.Buffers, report fmt.Stringer, filename string) error {
	writer := newZipSceneWriter(filename)
	return writer.Write(buffers, report)
}
