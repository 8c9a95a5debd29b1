// Package v1beta1 contains API Schema definitions for the
// confidentialcontainers.org v1beta1 API group
// +kubebuilder:object:generate=true
// +groupName=confidentialcontainers.org
package v1beta1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CcRuntimeSpec defines the desired deployment of the Confidential
// Containers runtime across the cluster.
type CcRuntimeSpec struct {
	// RuntimeName names the runtime flavor being deployed (e.g. kata)
	RuntimeName string `json:"runtimeName"`

	// CcNodeSelector selects the nodes the runtime is installed on
	// +optional
	CcNodeSelector *metav1.LabelSelector `json:"ccNodeSelector,omitempty"`

	// Config carries the payload installation configuration
	Config CcInstallConfig `json:"config"`
}

// CcInstallConfig defines how the runtime payload is installed on each node.
type CcInstallConfig struct {
	// InstallType is the payload installation mechanism (bundle or osnative)
	// +kubebuilder:validation:Enum=bundle;osnative
	InstallType string `json:"installType"`

	// PayloadImage is the image carrying the runtime binaries
	PayloadImage string `json:"payloadImage"`

	// ImagePullPolicy for the payload image
	// +optional
	ImagePullPolicy corev1.PullPolicy `json:"imagePullPolicy,omitempty"`

	// InstallCmd overrides the payload install command
	// +optional
	InstallCmd []string `json:"installCmd,omitempty"`

	// UninstallCmd overrides the payload uninstall command
	// +optional
	UninstallCmd []string `json:"uninstallCmd,omitempty"`

	// CleanupCmd overrides the payload cleanup command
	// +optional
	CleanupCmd []string `json:"cleanupCmd,omitempty"`

	// InstallerVolumes are extra volumes mounted into the installer pod
	// +optional
	InstallerVolumes []corev1.Volume `json:"installerVolumes,omitempty"`

	// InstallerVolumeMounts mount the installer volumes
	// +optional
	InstallerVolumeMounts []corev1.VolumeMount `json:"installerVolumeMounts,omitempty"`

	// EnvironmentVariables are injected into the installer pod
	// +optional
	EnvironmentVariables []corev1.EnvVar `json:"environmentVariables,omitempty"`

	// RuntimeClasses lists the runtime classes the operator creates
	// +optional
	RuntimeClasses []RuntimeClassConfig `json:"runtimeClasses,omitempty"`
}

// RuntimeClassConfig describes one runtime class created by the operator.
type RuntimeClassConfig struct {
	// Name of the runtime class
	Name string `json:"name"`

	// Snapshotter used for this runtime class
	// +optional
	Snapshotter string `json:"snapshotter,omitempty"`

	// PullType used for this runtime class
	// +optional
	PullType string `json:"pulltype,omitempty"`
}

// CcRuntimeStatus reflects the observed installation state.
type CcRuntimeStatus struct {
	// RuntimeClass is the primary runtime class created by this runtime
	// +optional
	RuntimeClass string `json:"runtimeClass,omitempty"`

	// TotalNodesCount is the number of nodes eligible for installation
	// +optional
	TotalNodesCount int `json:"totalNodesCount,omitempty"`

	// InstallationStatus tracks per-node installation progress
	// +optional
	InstallationStatus CcInstallationStatus `json:"installationStatus,omitempty"`
}

// CcInstallationStatus tracks node-level installation progress.
type CcInstallationStatus struct {
	// InProgress lists nodes with the installation still running
	// +optional
	InProgress CcInstallationInProgress `json:"inProgress,omitempty"`

	// Completed lists nodes with the installation finished
	// +optional
	Completed CcCompletedSpec `json:"completed,omitempty"`

	// Failed lists nodes where the installation broke
	// +optional
	Failed CcFailedSpec `json:"failed,omitempty"`
}

// CcInstallationInProgress tracks nodes still installing.
type CcInstallationInProgress struct {
	// +optional
	InProgressNodesCount int `json:"inProgressNodesCount,omitempty"`

	// +optional
	BinariesInstalledNodesList []string `json:"binariesInstallNodesList,omitempty"`
}

// CcCompletedSpec tracks nodes that finished installing.
type CcCompletedSpec struct {
	// +optional
	CompletedNodesCount int `json:"completedNodesCount,omitempty"`

	// +optional
	CompletedNodesList []string `json:"completedNodesList,omitempty"`
}

// CcFailedSpec tracks nodes where installation failed.
type CcFailedSpec struct {
	// +optional
	FailedNodesCount int `json:"failedNodesCount,omitempty"`

	// +optional
	FailedNodesList []string `json:"failedNodesList,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// CcRuntime configures the Confidential Containers runtime deployment.
type CcRuntime struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CcRuntimeSpec   `json:"spec,omitempty"`
	Status CcRuntimeStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// CcRuntimeList contains a list of CcRuntime resources.
type CcRuntimeList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CcRuntime `json:"items"`
}

// InstallationComplete reports whether every eligible node finished the
// payload installation.
func (r *CcRuntime) InstallationComplete() bool {
	return r.Status.TotalNodesCount > 0 &&
		r.Status.InstallationStatus.Completed.CompletedNodesCount >= r.Status.TotalNodesCount
}

// InstallationFailed reports whether any node conclusively failed.
func (r *CcRuntime) InstallationFailed() bool {
	return r.Status.InstallationStatus.Failed.FailedNodesCount > 0
}
