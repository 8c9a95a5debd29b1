package k8s

import (
	"context"
	"encoding/json"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// LabelNodes merges the given labels onto every node and returns the
// node names that were patched. On the single-node clusters this tool
// targets that is exactly one node, but the loop keeps multi-node dev
// setups working. Nodes that already carry all labels are skipped.
func (c *Client) LabelNodes(ctx context.Context, labels map[string]string) ([]string, error) {
	if len(labels) == 0 {
		return nil, nil
	}

	nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	if len(nodes.Items) == 0 {
		return nil, fmt.Errorf("cluster has no nodes")
	}

	patch, err := json.Marshal(map[string]any{
		"metadata": map[string]any{"labels": labels},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal label patch: %w", err)
	}

	var patched []string
	for _, node := range nodes.Items {
		if hasAllLabels(node.Labels, labels) {
			continue
		}
		_, err := c.clientset.CoreV1().Nodes().Patch(
			ctx, node.Name, types.StrategicMergePatchType, patch, metav1.PatchOptions{})
		if err != nil {
			return patched, fmt.Errorf("failed to label node %s: %w", node.Name, err)
		}
		patched = append(patched, node.Name)
	}

	return patched, nil
}

func hasAllLabels(existing, wanted map[string]string) bool {
	for k, v := range wanted {
		if existing[k] != v {
			return false
		}
	}
	return true
}

// RuntimeClassNames returns the names of all RuntimeClasses in the
// cluster.
func (c *Client) RuntimeClassNames(ctx context.Context) ([]string, error) {
	classes, err := c.clientset.NodeV1().RuntimeClasses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list runtime classes: %w", err)
	}

	names := make([]string, 0, len(classes.Items))
	for _, rc := range classes.Items {
		names = append(names, rc.Name)
	}
	return names, nil
}
