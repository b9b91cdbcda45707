package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/IGME-RIT/materials-ray-tracer-tutorial/asset/scene"
)

// The Resource type wraps a streamable mesh or manifest file that lives either
// on the local filesystem or behind an http(s) URL.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Return the base name of this resource without any leading path segments.
func (r *Resource) Name() string {
	return filepath.Base(r.url.Path)
}

// Returns the lower-case file extension of the resource path (including the dot).
func (r *Resource) Ext() string {
	return strings.ToLower(filepath.Ext(r.url.Path))
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Create a new Resource data stream. If relTo is specified and pathToResource
// does not define a scheme, then the path to the new Resource will be generated
// by concatenating the base path of relTo and pathToResource.
//
// Any failure to locate or open the resource is reported as a wrapped
// scene.ErrAssetUnreadable. The caller must close the returned Resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	url, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, fmt.Errorf("%w: resource: could not parse %q: %s", scene.ErrAssetUnreadable, pathToResource, err)
	}

	// Relative paths are resolved against the parent resource
	if url.Scheme == "" && relTo != nil && !filepath.IsAbs(url.Path) {
		path := url.Path
		url, _ = url.Parse(relTo.url.String())
		prefix := url.Path
		if url.Scheme == "" {
			prefix, err = filepath.Abs(relTo.url.String())
			if err != nil {
				return nil, fmt.Errorf("%w: resource: could not detect abs path for %s: %s", scene.ErrAssetUnreadable, relTo.url.String(), err)
			}
		}
		url.Path = filepath.Dir(prefix) + "/" + path
	}

	var reader io.ReadCloser
	switch url.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(url.Path))
		if err != nil {
			return nil, fmt.Errorf("%w: resource: %s", scene.ErrAssetUnreadable, err)
		}
	case "http", "https":
		resp, err := http.Get(url.String())
		if err != nil {
			return nil, fmt.Errorf("%w: resource: could not fetch '%s': %s", scene.ErrAssetUnreadable, url.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: resource: could not fetch '%s': status %d", scene.ErrAssetUnreadable, url.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("%w: resource: unsupported scheme '%s'", scene.ErrAssetUnreadable, url.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        url,
	}, nil
}

// Create a resource from a reader.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	url, _ := url.Parse(name)
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        url,
	}
}
