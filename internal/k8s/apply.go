package k8s

import (
	"bytes"
	"context"
	"fmt"
	"io"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/yaml"
)

// ApplyError reports a failed apply of a single manifest document.
type ApplyError struct {
	Kind      string
	Name      string
	Namespace string
	Err       error
}

func (e *ApplyError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("failed to apply %s %s/%s: %v", e.Kind, e.Namespace, e.Name, e.Err)
	}
	return fmt.Sprintf("failed to apply %s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *ApplyError) Unwrap() error { return e.Err }

// ApplyOutcome describes what Server-Side Apply did to one object.
// Changed is true when the object was created or its stored state
// moved, which is what the validator uses to decide whether a
// re-rollout needs to be confirmed.
type ApplyOutcome struct {
	Kind            string
	Name            string
	Namespace       string
	ResourceVersion string
	Changed         bool
}

// Apply applies multi-document YAML using Server-Side Apply. Each
// document is applied separately and empty documents are skipped. The
// fieldManager identifies the actor applying the configuration.
func (c *Client) Apply(ctx context.Context, manifests []byte, fieldManager string) ([]ApplyOutcome, error) {
	decoder := yaml.NewYAMLOrJSONDecoder(bytes.NewReader(manifests), 4096)

	var outcomes []ApplyOutcome
	docIndex := 0
	for {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return outcomes, fmt.Errorf("failed to decode manifest document %d: %w", docIndex, err)
		}

		if len(obj.Object) == 0 {
			docIndex++
			continue
		}

		outcome, err := c.applyObject(ctx, &obj, fieldManager)
		if err != nil {
			return outcomes, &ApplyError{
				Kind:      obj.GetKind(),
				Name:      obj.GetName(),
				Namespace: obj.GetNamespace(),
				Err:       err,
			}
		}
		outcomes = append(outcomes, outcome)
		docIndex++
	}

	return outcomes, nil
}

// applyObject applies a single unstructured object using Server-Side
// Apply and reports whether the stored object actually changed.
func (c *Client) applyObject(ctx context.Context, obj *unstructured.Unstructured, fieldManager string) (ApplyOutcome, error) {
	gvk := obj.GroupVersionKind()
	if gvk.Kind == "" {
		return ApplyOutcome{}, fmt.Errorf("object has no kind set")
	}

	mapping, err := c.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return ApplyOutcome{}, fmt.Errorf("failed to get REST mapping for %v: %w", gvk, err)
	}

	resourceInterface := c.dynamic.Resource(mapping.Resource)

	namespace := obj.GetNamespace()
	namespaced := mapping.Scope.Name() == meta.RESTScopeNameNamespace
	if namespaced && namespace == "" {
		namespace = "default"
	}

	// Snapshot the stored resourceVersion before the patch so the
	// outcome can report whether anything moved.
	versionBefore := ""
	if namespaced {
		existing, getErr := resourceInterface.Namespace(namespace).Get(ctx, obj.GetName(), metav1.GetOptions{})
		if getErr == nil {
			versionBefore = existing.GetResourceVersion()
		} else if !apierrors.IsNotFound(getErr) {
			return ApplyOutcome{}, fmt.Errorf("failed to read current state: %w", getErr)
		}
	} else {
		existing, getErr := resourceInterface.Get(ctx, obj.GetName(), metav1.GetOptions{})
		if getErr == nil {
			versionBefore = existing.GetResourceVersion()
		} else if !apierrors.IsNotFound(getErr) {
			return ApplyOutcome{}, fmt.Errorf("failed to read current state: %w", getErr)
		}
	}

	data, err := obj.MarshalJSON()
	if err != nil {
		return ApplyOutcome{}, fmt.Errorf("failed to marshal object to JSON: %w", err)
	}

	opts := metav1.PatchOptions{
		FieldManager: fieldManager,
		Force:        boolPtr(true),
	}

	var result *unstructured.Unstructured
	if namespaced {
		result, err = resourceInterface.Namespace(namespace).Patch(
			ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	} else {
		result, err = resourceInterface.Patch(
			ctx, obj.GetName(), types.ApplyPatchType, data, opts)
	}
	if err != nil {
		return ApplyOutcome{}, fmt.Errorf("server-side apply failed: %w", err)
	}

	versionAfter := result.GetResourceVersion()
	return ApplyOutcome{
		Kind:            result.GetKind(),
		Name:            result.GetName(),
		Namespace:       namespace,
		ResourceVersion: versionAfter,
		Changed:         versionBefore == "" || versionBefore != versionAfter,
	}, nil
}

func boolPtr(b bool) *bool { return &b }
