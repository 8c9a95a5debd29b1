package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "cococtl", cmd.Use)
	assert.Equal(t, "Manage a local Confidential Containers environment", cmd.Short)
}

func TestRoot_HasSubcommands(t *testing.T) {
	cmd := Root()

	expectedSubcommands := []string{
		"build",
		"setup",
		"validate",
		"doctor",
		"version",
		"completion",
	}

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}

	for _, expected := range expectedSubcommands {
		assert.True(t, subcommands[expected], "Expected subcommand %s not found", expected)
	}
}

func TestRoot_SubcommandCount(t *testing.T) {
	cmd := Root()
	assert.Len(t, cmd.Commands(), 6, "Expected 6 subcommands")
}

func TestBuildCommand_Flags(t *testing.T) {
	cmd := Build()

	require.NotNil(t, cmd)
	assert.Equal(t, "build [component...]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestSetupCommand_Flags(t *testing.T) {
	cmd := Setup()

	require.NotNil(t, cmd)
	assert.Equal(t, "setup", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
	assert.NotNil(t, cmd.Flags().Lookup("yes"))
}

func TestValidateCommand_Flags(t *testing.T) {
	cmd := Validate()

	require.NotNil(t, cmd)
	assert.Equal(t, "validate", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestDoctorCommand_Flags(t *testing.T) {
	cmd := Doctor()

	require.NotNil(t, cmd)
	assert.Equal(t, "doctor", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("config"))
	assert.NotNil(t, cmd.Flags().Lookup("json"))
}
