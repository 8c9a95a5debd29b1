// Package k8s wraps k8s.io/client-go and controller-runtime for the
// cluster operations the lifecycle controller needs: Server-Side Apply
// of multi-document YAML, node labeling, CRD readiness and pod
// inspection on a single-node cluster.
package k8s

import (
	"fmt"
	"os"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/jplazaroalonso/local-deployment/api/v1beta1"
)

// Client bundles the typed clientset, the dynamic client and a typed
// controller-runtime client sharing the CcRuntime scheme.
type Client struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	mapper    meta.RESTMapper
	ctrl      ctrlclient.Client
}

// NewFromKubeconfig creates a Client from a kubeconfig file path. An
// empty path falls back to the KUBECONFIG environment variable and
// then to the default loading rules.
func NewFromKubeconfig(kubeconfigPath string) (*Client, error) {
	if kubeconfigPath == "" {
		kubeconfigPath = os.Getenv("KUBECONFIG")
	}

	restConfig, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build REST config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery client: %w", err)
	}

	groupResources, err := restmapper.GetAPIGroupResources(discoveryClient)
	if err != nil {
		return nil, fmt.Errorf("failed to get API group resources: %w", err)
	}
	mapper := restmapper.NewDiscoveryRESTMapper(groupResources)

	typed, err := ctrlclient.New(restConfig, ctrlclient.Options{Scheme: v1beta1.Scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create controller-runtime client: %w", err)
	}

	return &Client{
		clientset: clientset,
		dynamic:   dynamicClient,
		mapper:    mapper,
		ctrl:      typed,
	}, nil
}

// NewFromClients creates a Client from pre-configured clients. This is
// useful for testing with fake clients.
func NewFromClients(
	clientset kubernetes.Interface,
	dynamicClient dynamic.Interface,
	mapper meta.RESTMapper,
	typed ctrlclient.Client,
) *Client {
	return &Client{
		clientset: clientset,
		dynamic:   dynamicClient,
		mapper:    mapper,
		ctrl:      typed,
	}
}
