package agents

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
)

func codeOf(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var pdErr *errors.PressdeskError
	require.True(t, stderrors.As(err, &pdErr), "expected a coded error, got %v", err)
	return pdErr.Code
}

func TestFormValidation(t *testing.T) {
	tests := []struct {
		name     string
		form     Form
		wantCode errors.ErrorCode
	}{
		{"reputation ok", ReputationForm{CompanyName: "Acme"}, ""},
		{"reputation blank company", ReputationForm{CompanyName: "  ", URLs: []string{"https://x"}}, errors.ErrCodeInputRequired},
		{"brief ok", BriefForm{CompanyName: "Acme", ProductDescription: "Rockets", TargetAudience: "Coyotes"}, ""},
		{"brief missing audience", BriefForm{CompanyName: "Acme", ProductDescription: "Rockets"}, errors.ErrCodeInputRequired},
		{"stress ok", StressTestForm{CompanyName: "Acme", Industry: "Aerospace", BriefContent: "Launch"}, ""},
		{"stress missing brief", StressTestForm{CompanyName: "Acme", Industry: "Aerospace"}, errors.ErrCodeInputRequired},
		{"content defaults", ContentForm{OriginalContent: "Hello"}, ""},
		{"content missing text", ContentForm{Format: "carousel"}, errors.ErrCodeInputRequired},
		{"content bad format", ContentForm{OriginalContent: "Hello", Format: "tiktok"}, errors.ErrCodeInputInvalid},
		{"content bad voice", ContentForm{OriginalContent: "Hello", Voice: "snarky"}, errors.ErrCodeInputInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantCode, codeOf(t, err))
		})
	}
}

func TestInvalidChoiceListsAllowedValues(t *testing.T) {
	err := ContentForm{OriginalContent: "x", Format: "tiktok"}.Validate()
	assert.Contains(t, err.Error(), "linkedin_post, twitter_thread, instagram_reel, carousel")
}

func TestCleanList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanList([]string{" a ", "", "  ", "b"}))
	assert.NotNil(t, CleanList(nil))
	assert.Empty(t, CleanList(nil))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a", "https://b"}, SplitList("https://a, ,https://b,"))
	assert.Empty(t, SplitList(""))
}

func TestKindRoutes(t *testing.T) {
	for _, k := range Kinds() {
		route := k.Route()
		assert.True(t, route.IsProtected(), "%s route should be protected", k)

		back, ok := KindForRoute(route)
		assert.True(t, ok)
		assert.Equal(t, k, back)

		assert.NotEmpty(t, k.Title())
		assert.NotEmpty(t, k.Description())
		assert.NotEmpty(t, Fields(k))
	}

	_, ok := KindForRoute(guard.Dashboard)
	assert.False(t, ok)
}

func TestFallbackMessages(t *testing.T) {
	assert.Equal(t, "Failed to analyze reputation", KindReputation.Fallback())
	assert.Equal(t, "Failed to generate PR brief", KindBrief.Fallback())
	assert.Equal(t, "Failed to perform stress test", KindStressTest.Fallback())
	assert.Equal(t, "Failed to repurpose content", KindContent.Fallback())
}

func TestFormFromValues(t *testing.T) {
	form, err := FormFromValues(KindBrief, map[string]string{
		"company_name":        " Acme ",
		"product_description": "Rockets",
		"target_audience":     "Coyotes",
		"key_messages":        "fast, , reliable",
	})
	require.NoError(t, err)

	brief, ok := form.(BriefForm)
	require.True(t, ok)
	assert.Equal(t, "Acme", brief.CompanyName)
	assert.Equal(t, []string{"fast", "reliable"}, brief.KeyMessages)
	assert.Empty(t, brief.CampaignGoals)

	for _, k := range Kinds() {
		values := map[string]string{}
		for _, f := range Fields(k) {
			values[f.Key] = "x"
			if f.Default != "" {
				values[f.Key] = f.Default
			}
		}
		form, err := FormFromValues(k, values)
		require.NoError(t, err)
		assert.Equal(t, k, form.Kind())
		assert.NoError(t, form.Validate(), "all fields filled for %s should validate", k)
	}

	_, err = FormFromValues(Kind("nope"), nil)
	assert.Error(t, err)
}
