package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldPromptDisabledInCI(t *testing.T) {
	for _, envVar := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "BUILDKITE"} {
		t.Run(envVar, func(t *testing.T) {
			t.Setenv(envVar, "true")
			assert.False(t, ShouldPrompt())
		})
	}
}

func TestPromptForOptionRequiresOptions(t *testing.T) {
	_, err := PromptForOption("Choose:", nil, "")
	require.Error(t, err)
}

func TestPromptCredentialsNothingMissing(t *testing.T) {
	c := &Credentials{Email: "a@b.co", Password: "pw"}
	require.NoError(t, PromptCredentials(c, false))
	assert.Equal(t, "a@b.co", c.Email)
}

func TestRequiredValidator(t *testing.T) {
	v := required("email")
	assert.EqualError(t, v("  "), "email is required")
	assert.NoError(t, v("x"))
}
