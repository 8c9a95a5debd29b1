package k8s

import (
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/jplazaroalonso/local-deployment/api/v1beta1"
)

// GetCcRuntime returns the named CcRuntime, or (nil, nil) when it does
// not exist. CcRuntime is cluster-scoped.
func (c *Client) GetCcRuntime(ctx context.Context, name string) (*v1beta1.CcRuntime, error) {
	var runtime v1beta1.CcRuntime
	err := c.ctrl.Get(ctx, ctrlclient.ObjectKey{Name: name}, &runtime)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &runtime, nil
}
