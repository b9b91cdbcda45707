package input

import (
	"errors"
	"fmt"
	"io"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset"
	"github.com/IGME-RIT/materials-ray-tracer-tutorial/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidManifest = errors.New("input: invalid manifest")
)

// Supported procedural shapes.
const (
	ShapePlane = "plane"
	ShapeCube  = "cube"
	ShapeBox   = "box"
)

// Rendering hint defaults applied to meshes that do not override them.
const (
	DefaultUseEffects      = true
	DefaultReflectionLevel = 2
)

// A transformation baked into the mesh geometry at build time. Rotation
// angles are expressed in degrees.
type TransformSpec struct {
	Translate []float32 `yaml:"translate" toml:"translate"`
	Rotate    []float32 `yaml:"rotate" toml:"rotate"`
	Scale     []float32 `yaml:"scale" toml:"scale"`
}

// A MeshSpec describes a single scene mesh. Exactly one of File and
// Procedural must be set.
type MeshSpec struct {
	Name string `yaml:"name" toml:"name"`

	// Path to a mesh file relative to the manifest or an http(s) URL.
	File string `yaml:"file" toml:"file"`

	// Procedural shape name and its parameters.
	Procedural string    `yaml:"procedural" toml:"procedural"`
	Size       []float32 `yaml:"size" toml:"size"`
	Color      []float32 `yaml:"color" toml:"color"`

	// Rendering hints; nil selects the defaults.
	Effects    *bool  `yaml:"effects" toml:"effects"`
	Reflection *int32 `yaml:"reflection" toml:"reflection"`

	// Number of scene slots occupied by this mesh. Zero is treated as 1.
	Copies int `yaml:"copies" toml:"copies"`

	Transform *TransformSpec `yaml:"transform" toml:"transform"`
}

// A Manifest lists the meshes that make up a scene in slot order.
type Manifest struct {
	Meshes []MeshSpec `yaml:"meshes" toml:"meshes"`

	// Mesh file paths are resolved relative to this resource.
	base *asset.Resource
}

// Base returns the resource that mesh file paths are resolved against.
func (m *Manifest) Base() *asset.Resource {
	return m.base
}

// Load a scene manifest. The format is selected from the resource extension:
// YAML (.yaml, .yml), TOML (.toml) or a bare .obj file which yields a single
// mesh manifest.
func Load(res *asset.Resource) (*Manifest, error) {
	man := &Manifest{base: res}

	switch res.Ext() {
	case ".obj":
		man.Meshes = []MeshSpec{{Name: res.Name(), File: res.Name()}}
	case ".yaml", ".yml", ".toml":
		data, err := io.ReadAll(res)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %s", ErrInvalidManifest, res.Path(), err)
		}
		if res.Ext() == ".toml" {
			err = toml.Unmarshal(data, man)
		} else {
			err = yaml.Unmarshal(data, man)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %s", ErrInvalidManifest, res.Path(), err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported manifest format %q", ErrInvalidManifest, res.Ext())
	}

	if err := man.Validate(); err != nil {
		return nil, err
	}
	return man, nil
}

// Validate checks every mesh entry and fills in missing names.
func (m *Manifest) Validate() error {
	if len(m.Meshes) == 0 {
		return fmt.Errorf("%w: no meshes defined", ErrInvalidManifest)
	}

	for index := range m.Meshes {
		spec := &m.Meshes[index]
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("mesh-%d", index)
		}
		if err := spec.validate(); err != nil {
			return fmt.Errorf("%w: mesh %q: %s", ErrInvalidManifest, spec.Name, err)
		}
	}
	return nil
}

func (s *MeshSpec) validate() error {
	switch {
	case s.File == "" && s.Procedural == "":
		return errors.New(`one of "file" or "procedural" must be set`)
	case s.File != "" && s.Procedural != "":
		return errors.New(`"file" and "procedural" are mutually exclusive`)
	}

	switch s.Procedural {
	case "", ShapePlane, ShapeCube, ShapeBox:
	default:
		return fmt.Errorf("unknown procedural shape %q", s.Procedural)
	}

	if s.Copies < 0 {
		return fmt.Errorf("copies must be >= 0; got %d", s.Copies)
	}
	if s.Reflection != nil && *s.Reflection < 0 {
		return fmt.Errorf("reflection must be >= 0; got %d", *s.Reflection)
	}
	if err := checkLen("size", s.Size, 3); err != nil {
		return err
	}
	if len(s.Color) != 0 && len(s.Color) != 3 && len(s.Color) != 4 {
		return fmt.Errorf("color expects 3 or 4 components; got %d", len(s.Color))
	}
	if s.Transform != nil {
		for _, field := range []struct {
			name string
			v    []float32
		}{
			{"transform.translate", s.Transform.Translate},
			{"transform.rotate", s.Transform.Rotate},
			{"transform.scale", s.Transform.Scale},
		} {
			if err := checkLen(field.name, field.v, 3); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkLen(name string, v []float32, exp int) error {
	if len(v) != 0 && len(v) != exp {
		return fmt.Errorf("%s expects %d components; got %d", name, exp, len(v))
	}
	return nil
}

// UseEffects returns the effective effects flag.
func (s *MeshSpec) UseEffects() bool {
	if s.Effects == nil {
		return DefaultUseEffects
	}
	return *s.Effects
}

// ReflectionLevel returns the effective reflection level.
func (s *MeshSpec) ReflectionLevel() int32 {
	if s.Reflection == nil {
		return DefaultReflectionLevel
	}
	return *s.Reflection
}

// CopyCount returns the number of scene slots used by this mesh.
func (s *MeshSpec) CopyCount() int {
	if s.Copies <= 0 {
		return 1
	}
	return s.Copies
}

// GetTransform returns the build-time transformation for this mesh.
func (s *MeshSpec) GetTransform() types.Transform {
	t := types.IdentTransform()
	if s.Transform == nil {
		return t
	}
	if len(s.Transform.Translate) == 3 {
		t.Translate = toVec3(s.Transform.Translate)
	}
	if len(s.Transform.Rotate) == 3 {
		t.Rotate = toVec3(s.Transform.Rotate)
	}
	if len(s.Transform.Scale) == 3 {
		t.Scale = toVec3(s.Transform.Scale)
	}
	return t
}

// Slots returns the total number of scene slots required by the manifest.
func (m *Manifest) Slots() int {
	total := 0
	for index := range m.Meshes {
		total += m.Meshes[index].CopyCount()
	}
	return total
}

func toVec3(v []float32) types.Vec3 {
	return types.XYZ(v[0], v[1], v[2])
}

func toColor(v []float32, def types.Vec4) types.Vec4 {
	switch len(v) {
	case 3:
		return types.XYZW(v[0], v[1], v[2], 1)
	case 4:
		return types.XYZW(v[0], v[1], v[2], v[3])
	default:
		return def
	}
}
