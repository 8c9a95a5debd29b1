package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplazaroalonso/local-deployment/internal/util/prerequisites"
	"github.com/jplazaroalonso/local-deployment/internal/validate"
)

// injectPrereqs stubs the prerequisite and host checks.
func injectPrereqs(t *testing.T, results *prerequisites.CheckResults, kvm, wsl bool) {
	t.Helper()

	origCheck := checkSetupPrereqs
	origKVM := kvmAvailable
	origWSL := isWSL
	t.Cleanup(func() {
		checkSetupPrereqs = origCheck
		kvmAvailable = origKVM
		isWSL = origWSL
	})

	checkSetupPrereqs = func() *prerequisites.CheckResults { return results }
	kvmAvailable = func() bool { return kvm }
	isWSL = func() bool { return wsl }
}

func allToolsPresent() *prerequisites.CheckResults {
	return &prerequisites.CheckResults{
		Results: []prerequisites.CheckResult{
			{Tool: prerequisites.Tool{Name: "kubectl", Required: true}, Found: true, Path: "/usr/bin/kubectl"},
			{Tool: prerequisites.Tool{Name: "nerdctl", Required: true}, Found: true, Path: "/usr/bin/nerdctl"},
		},
	}
}

func missingKubectl() *prerequisites.CheckResults {
	tool := prerequisites.Tool{Name: "kubectl", Required: true, InstallURL: "https://kubernetes.io/docs/tasks/tools/"}
	return &prerequisites.CheckResults{
		Results: []prerequisites.CheckResult{{Tool: tool}},
		Missing: []prerequisites.Tool{tool},
	}
}

func TestSetup_Success(t *testing.T) {
	env := &fakeEnvironment{
		setupReport: &validate.Report{State: validate.StateReady, Ready: true},
	}
	injectEnvironment(t, env, nil)
	injectPrereqs(t, allToolsPresent(), true, false)

	err := Setup(context.Background(), "", false)
	require.NoError(t, err)
}

func TestSetup_MissingRequiredTool(t *testing.T) {
	env := &fakeEnvironment{}
	injectEnvironment(t, env, nil)
	injectPrereqs(t, missingKubectl(), true, false)

	err := Setup(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required tools")
	assert.Contains(t, err.Error(), "kubectl")
}

func TestSetup_NoKVMNonInteractiveProceeds(t *testing.T) {
	// Without a TTY the confirmation is skipped and setup proceeds.
	env := &fakeEnvironment{
		setupReport: &validate.Report{State: validate.StateReady, Ready: true},
	}
	injectEnvironment(t, env, nil)
	injectPrereqs(t, allToolsPresent(), false, true)

	err := Setup(context.Background(), "", false)
	require.NoError(t, err)
}

func TestSetup_SetupErrorPropagated(t *testing.T) {
	env := &fakeEnvironment{
		setupReport: &validate.Report{State: validate.StateFailed, FailureReason: "smoke test pod failed"},
		setupErr:    errors.New("stage validate failed: smoke test pod failed"),
	}
	injectEnvironment(t, env, nil)
	injectPrereqs(t, allToolsPresent(), true, false)

	err := Setup(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage validate failed")
}

func TestSetup_ConfigLoadError(t *testing.T) {
	injectEnvironment(t, &fakeEnvironment{}, errors.New("yaml: unmarshal error"))
	injectPrereqs(t, allToolsPresent(), true, false)

	err := Setup(context.Background(), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}
