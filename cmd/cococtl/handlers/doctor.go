package handlers

import (
	"context"
	"encoding/json"
	"os"
	"runtime"

	"github.com/jplazaroalonso/local-deployment/internal/config"
	"github.com/jplazaroalonso/local-deployment/internal/k8s"
	"github.com/jplazaroalonso/local-deployment/internal/ui"
	"github.com/jplazaroalonso/local-deployment/internal/validate"
)

// DoctorStatus is the full host and cluster diagnosis.
type DoctorStatus struct {
	Tools   []ToolHealth   `json:"tools"`
	Host    HostHealth     `json:"host"`
	Cluster *ClusterHealth `json:"cluster,omitempty"`
}

// ToolHealth reports one client tool.
type ToolHealth struct {
	Name     string `json:"name"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Version  string `json:"version,omitempty"`
}

// HostHealth reports host virtualization capabilities.
type HostHealth struct {
	KVM bool `json:"kvm"`
	WSL bool `json:"wsl"`
}

// ClusterHealth reports cluster-side state, present only when the
// cluster is reachable.
type ClusterHealth struct {
	RuntimeClasses        []string `json:"runtimeClasses"`
	PreferredRuntimeClass string   `json:"preferredRuntimeClass,omitempty"`
	CcRuntimeInstalled    bool     `json:"ccRuntimeInstalled"`
	InstallationComplete  bool     `json:"installationComplete"`
	InstallationFailed    bool     `json:"installationFailed"`
}

// probeCluster gathers cluster-side health. Replaced in tests.
var probeCluster = func(ctx context.Context, cfg *config.Config, arch string) (*ClusterHealth, error) {
	cluster, err := k8s.NewFromKubeconfig(cfg.Cluster.Kubeconfig)
	if err != nil {
		return nil, err
	}

	classes, err := cluster.RuntimeClassNames(ctx)
	if err != nil {
		return nil, err
	}

	health := &ClusterHealth{
		RuntimeClasses:        classes,
		PreferredRuntimeClass: validate.SelectRuntimeClass(classes, arch),
	}

	cr, err := cluster.GetCcRuntime(ctx, cfg.Validation.CcRuntimeName)
	if err != nil {
		return nil, err
	}
	if cr != nil {
		health.CcRuntimeInstalled = true
		health.InstallationComplete = cr.InstallationComplete()
		health.InstallationFailed = cr.InstallationFailed()
	}

	return health, nil
}

// Doctor diagnoses the host and, when reachable, the cluster.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfigFile(resolveConfigPath(configPath))
	if err != nil {
		return err
	}

	status := &DoctorStatus{
		Host: HostHealth{
			KVM: kvmAvailable(),
			WSL: isWSL(),
		},
	}

	prereqs := checkSetupPrereqs()
	for _, result := range prereqs.Results {
		status.Tools = append(status.Tools, ToolHealth{
			Name:     result.Tool.Name,
			Required: result.Tool.Required,
			Found:    result.Found,
			Version:  result.Version,
		})
	}

	cluster, clusterErr := probeCluster(ctx, cfg, hostArch())
	if clusterErr == nil {
		status.Cluster = cluster
	}

	if jsonOutput {
		return printDoctorJSON(status)
	}

	printDoctorStyled(status, clusterErr)
	return nil
}

func printDoctorJSON(status *DoctorStatus) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(status)
}

func printDoctorStyled(status *DoctorStatus, clusterErr error) {
	ui.Section("Client tools")
	for _, tool := range status.Tools {
		switch {
		case tool.Found && tool.Version != "":
			ui.Infof("%s: %s", tool.Name, tool.Version)
		case tool.Found:
			ui.Infof("%s: found", tool.Name)
		case tool.Required:
			ui.Errorf("%s: not found (required)", tool.Name)
		default:
			ui.Warnf("%s: not found (optional)", tool.Name)
		}
	}

	ui.Section("Host")
	if status.Host.KVM {
		ui.Infof("KVM: available")
	} else {
		ui.Warnf("KVM: not available; hardware-backed runtime classes will not work")
	}
	if status.Host.WSL {
		ui.Warnf("WSL host detected")
	}

	ui.Section("Cluster")
	if clusterErr != nil {
		ui.Warnf("cluster unreachable: %v", clusterErr)
		return
	}

	cluster := status.Cluster
	ui.Infof("runtime classes: %v", cluster.RuntimeClasses)
	if cluster.PreferredRuntimeClass != "" {
		ui.Infof("preferred runtime class: %s", cluster.PreferredRuntimeClass)
	}
	switch {
	case !cluster.CcRuntimeInstalled:
		ui.Warnf("ccruntime not installed; run setup")
	case cluster.InstallationFailed:
		ui.Errorf("ccruntime installation failed")
	case cluster.InstallationComplete:
		ui.Infof("ccruntime installation complete")
	default:
		ui.Infof("ccruntime installation in progress")
	}
}

// hostArch returns the architecture used for runtime class selection.
func hostArch() string {
	return runtime.GOARCH
}
