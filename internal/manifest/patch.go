// Package manifest resolves image references in Kubernetes manifest
// templates against locally built images.
//
// Resolution is a pure transform over the parsed document: image fields are
// located by path per kind, matched against known component names, and
// substituted with the built reference before re-serializing. The same
// template and build set always produce the same resolved manifest.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/yaml"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/jplazaroalonso/local-deployment/internal/build"
)

// UnresolvedReferenceError reports a template that needs an image for a
// component nobody built. Fatal: the missing component must be built first.
type UnresolvedReferenceError struct {
	Component string
	Kind      string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("manifest %s references component %q with no build result (run build %s first)",
		e.Kind, e.Component, e.Component)
}

// imageFieldPaths locates the image reference fields per manifest kind.
// Kinds absent from this map carry no image references to resolve.
var imageFieldPaths = map[string][][]string{
	"CcRuntime": {
		{"spec", "config", "payloadImage"},
	},
	"Pod": {
		{"spec", "containers"}, // handled as a container list
	},
}

// Template is a manifest template as read from disk.
type Template struct {
	// Path is where the template was loaded from, for diagnostics.
	Path string

	// Raw is the unmodified template text, possibly multi-document.
	Raw []byte
}

// Load reads a template file.
func Load(path string) (*Template, error) {
	// #nosec G304 - template paths come from the configuration file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest template %s: %w", path, err)
	}
	return &Template{Path: path, Raw: data}, nil
}

// Resolved is the outcome of resolving a template.
type Resolved struct {
	// Kinds are the document kinds in order of appearance.
	Kinds []string

	// Manifests is the resolved multi-document YAML ready to apply.
	Manifests []byte

	// ImageRefs maps component name to the reference substituted for it.
	ImageRefs map[string]string
}

// Resolve rewrites every image field that names a known component to the
// locally built reference. Image values whose repository does not match a
// known component are left untouched. A known component with no build
// result yields an UnresolvedReferenceError.
func Resolve(tmpl *Template, known []string, results map[string]*build.Result) (*Resolved, error) {
	knownSet := make(map[string]bool, len(known))
	for _, name := range known {
		knownSet[name] = true
	}

	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(tmpl.Raw), 4096)
	resolved := &Resolved{ImageRefs: make(map[string]string)}

	var docs [][]byte
	for {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode %s: %w", tmpl.Path, err)
		}
		if len(obj.Object) == 0 {
			continue
		}

		kind := obj.GetKind()
		resolved.Kinds = append(resolved.Kinds, kind)

		for _, path := range imageFieldPaths[kind] {
			if err := resolveField(&obj, kind, path, knownSet, results, resolved.ImageRefs); err != nil {
				return nil, err
			}
		}

		out, err := sigsyaml.Marshal(obj.Object)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s document: %w", kind, err)
		}
		docs = append(docs, out)
	}

	var buf bytes.Buffer
	for i, doc := range docs {
		if i > 0 {
			buf.WriteString("---\n")
		}
		buf.Write(doc)
	}
	resolved.Manifests = buf.Bytes()

	return resolved, nil
}

// resolveField substitutes one image field (or container list) in place.
func resolveField(obj *unstructured.Unstructured, kind string, path []string,
	known map[string]bool, results map[string]*build.Result, refs map[string]string) error {

	if last := path[len(path)-1]; last == "containers" {
		return resolveContainers(obj, kind, path, known, results, refs)
	}

	value, found, err := unstructured.NestedString(obj.Object, path...)
	if err != nil || !found || value == "" {
		return nil
	}

	component := repositoryName(value)
	if !known[component] {
		return nil
	}

	res, ok := results[component]
	if !ok {
		return &UnresolvedReferenceError{Component: component, Kind: kind}
	}

	if err := unstructured.SetNestedField(obj.Object, res.ImageRef, path...); err != nil {
		return fmt.Errorf("failed to set %s on %s: %w", strings.Join(path, "."), kind, err)
	}
	refs[component] = res.ImageRef
	return nil
}

func resolveContainers(obj *unstructured.Unstructured, kind string, path []string,
	known map[string]bool, results map[string]*build.Result, refs map[string]string) error {

	containers, found, err := unstructured.NestedSlice(obj.Object, path...)
	if err != nil || !found {
		return nil
	}

	changed := false
	for i, c := range containers {
		container, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		image, _ := container["image"].(string)
		component := repositoryName(image)
		if !known[component] {
			continue
		}
		res, ok := results[component]
		if !ok {
			return &UnresolvedReferenceError{Component: component, Kind: kind}
		}
		container["image"] = res.ImageRef
		containers[i] = container
		refs[component] = res.ImageRef
		changed = true
	}

	if !changed {
		return nil
	}
	if err := unstructured.SetNestedSlice(obj.Object, containers, path...); err != nil {
		return fmt.Errorf("failed to set containers on %s: %w", kind, err)
	}
	return nil
}

// repositoryName extracts the bare repository name from an image reference,
// dropping any registry prefix and tag: "k8s.io/coco-payload:local" yields
// "coco-payload".
func repositoryName(ref string) string {
	repo := ref
	if i := strings.LastIndexByte(repo, ':'); i >= 0 && !strings.ContainsRune(repo[i:], '/') {
		repo = repo[:i]
	}
	if i := strings.LastIndexByte(repo, '/'); i >= 0 {
		repo = repo[i+1:]
	}
	return repo
}
