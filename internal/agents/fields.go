package agents

import (
	"fmt"
	"strings"
)

// Field describes one input of an agent form, for UIs that build forms generically.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Required    bool
	// List fields are entered as comma separated values.
	List bool
	// Long fields hold paragraphs of text.
	Long    bool
	Options []Option
	Default string
}

// Fields returns the inputs for an agent in display order.
func Fields(k Kind) []Field {
	switch k {
	case KindReputation:
		return []Field{
			{Key: "company_name", Label: "Company name", Placeholder: "Enter your company name", Required: true},
			{Key: "urls", Label: "Media URLs", Placeholder: "https://example.com/article, ...", List: true},
			{Key: "keywords", Label: "Keywords", Placeholder: "keyword or phrase, ...", List: true},
		}
	case KindBrief:
		return []Field{
			{Key: "company_name", Label: "Company name", Placeholder: "Enter your company name", Required: true},
			{Key: "product_description", Label: "Product description", Placeholder: "Describe your product, service, or announcement", Required: true, Long: true},
			{Key: "target_audience", Label: "Target audience", Placeholder: "Demographics, interests, pain points", Required: true, Long: true},
			{Key: "key_messages", Label: "Key messages", Placeholder: "message, message, ...", List: true},
			{Key: "campaign_goals", Label: "Campaign goals", Placeholder: "e.g. increase brand awareness, ...", List: true},
		}
	case KindStressTest:
		return []Field{
			{Key: "company_name", Label: "Company name", Placeholder: "Enter your company name", Required: true},
			{Key: "industry", Label: "Industry", Placeholder: "e.g. Technology, Healthcare, Finance", Required: true},
			{Key: "brief_content", Label: "Brief content", Placeholder: "Paste the brief or announcement to stress test", Required: true, Long: true},
		}
	case KindContent:
		return []Field{
			{Key: "original_content", Label: "Original content", Placeholder: "Paste the long-form content to repurpose", Required: true, Long: true},
			{Key: "target_format", Label: "Target format", Options: Formats, Default: DefaultFormat},
			{Key: "brand_voice", Label: "Brand voice", Options: Voices, Default: DefaultVoice},
		}
	default:
		return nil
	}
}

// FormFromValues builds a form from raw field values keyed by Field.Key.
func FormFromValues(k Kind, values map[string]string) (Form, error) {
	get := func(key string) string { return strings.TrimSpace(values[key]) }

	switch k {
	case KindReputation:
		return ReputationForm{
			CompanyName: get("company_name"),
			URLs:        SplitList(values["urls"]),
			Keywords:    SplitList(values["keywords"]),
		}, nil
	case KindBrief:
		return BriefForm{
			CompanyName:        get("company_name"),
			ProductDescription: get("product_description"),
			TargetAudience:     get("target_audience"),
			KeyMessages:        SplitList(values["key_messages"]),
			CampaignGoals:      SplitList(values["campaign_goals"]),
		}, nil
	case KindStressTest:
		return StressTestForm{
			CompanyName:  get("company_name"),
			Industry:     get("industry"),
			BriefContent: get("brief_content"),
		}, nil
	case KindContent:
		return ContentForm{
			OriginalContent: get("original_content"),
			Format:          get("target_format"),
			Voice:           get("brand_voice"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown agent %q", k)
	}
}
