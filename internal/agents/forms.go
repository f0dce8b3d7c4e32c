// Package agents validates agent input, calls the backend agents and turns
// their results into markdown reports.
package agents

import (
	"slices"
	"strings"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/guard"
)

// Kind identifies one of the four backend agents.
type Kind string

const (
	KindReputation Kind = "reputation"
	KindBrief      Kind = "brief"
	KindStressTest Kind = "stress-test"
	KindContent    Kind = "content"
)

// Kinds lists the agents in menu order.
func Kinds() []Kind {
	return []Kind{KindReputation, KindBrief, KindStressTest, KindContent}
}

// KindForRoute maps a dashboard route to its agent.
func KindForRoute(r guard.Route) (Kind, bool) {
	for _, k := range Kinds() {
		if k.Route() == r {
			return k, true
		}
	}
	return "", false
}

func (k Kind) Route() guard.Route {
	switch k {
	case KindReputation:
		return guard.Reputation
	case KindBrief:
		return guard.Brief
	case KindStressTest:
		return guard.StressTest
	case KindContent:
		return guard.ContentStudio
	default:
		return guard.Agents
	}
}

func (k Kind) Title() string {
	switch k {
	case KindReputation:
		return "Reputation Scanner"
	case KindBrief:
		return "PR Brief Generator"
	case KindStressTest:
		return "Crisis Stress Tester"
	case KindContent:
		return "Content Repurposer"
	default:
		return string(k)
	}
}

func (k Kind) Description() string {
	switch k {
	case KindReputation:
		return "Analyze media coverage and sentiment for a company"
	case KindBrief:
		return "Generate a PR brief with story angles and media targets"
	case KindStressTest:
		return "Prepare for the toughest questions journalists will ask"
	case KindContent:
		return "Turn long-form content into social posts"
	default:
		return ""
	}
}

// Fallback is the message shown when a call fails without a server detail.
func (k Kind) Fallback() string {
	switch k {
	case KindReputation:
		return "Failed to analyze reputation"
	case KindBrief:
		return "Failed to generate PR brief"
	case KindStressTest:
		return "Failed to perform stress test"
	case KindContent:
		return "Failed to repurpose content"
	default:
		return "Request failed"
	}
}

// Option is an allowed value for a choice field.
type Option struct {
	Value       string
	Label       string
	Description string
}

// Formats are the content repurposing targets.
var Formats = []Option{
	{Value: "linkedin_post", Label: "LinkedIn Post", Description: "Professional post with storytelling and value proposition"},
	{Value: "twitter_thread", Label: "Twitter/X Thread", Description: "8-12 tweet thread with hooks and engagement"},
	{Value: "instagram_reel", Label: "Instagram Reel", Description: "30-60 second video script with hooks and CTA"},
	{Value: "carousel", Label: "Social Carousel", Description: "5-7 slides with headlines and key points"},
}

// Voices are the supported brand voices.
var Voices = []Option{
	{Value: "professional", Label: "Professional", Description: "Formal, authoritative tone"},
	{Value: "casual", Label: "Casual", Description: "Friendly, conversational tone"},
	{Value: "inspirational", Label: "Inspirational", Description: "Motivating, uplifting tone"},
	{Value: "educational", Label: "Educational", Description: "Informative, teaching tone"},
	{Value: "storytelling", Label: "Storytelling", Description: "Narrative, engaging tone"},
}

const (
	DefaultFormat = "linkedin_post"
	DefaultVoice  = "professional"
)

func optionValues(opts []Option) []string {
	values := make([]string, len(opts))
	for i, o := range opts {
		values[i] = o.Value
	}
	return values
}

// Form is validated agent input.
type Form interface {
	Kind() Kind
	Validate() error
}

// ReputationForm is input for the reputation scanner.
type ReputationForm struct {
	CompanyName string
	URLs        []string
	Keywords    []string
}

func (ReputationForm) Kind() Kind { return KindReputation }

func (f ReputationForm) Validate() error {
	return requireFields(field{"company name", f.CompanyName})
}

// BriefForm is input for the brief generator.
type BriefForm struct {
	CompanyName        string
	ProductDescription string
	TargetAudience     string
	KeyMessages        []string
	CampaignGoals      []string
}

func (BriefForm) Kind() Kind { return KindBrief }

func (f BriefForm) Validate() error {
	return requireFields(
		field{"company name", f.CompanyName},
		field{"product description", f.ProductDescription},
		field{"target audience", f.TargetAudience},
	)
}

// StressTestForm is input for the crisis stress tester.
type StressTestForm struct {
	CompanyName  string
	Industry     string
	BriefContent string
}

func (StressTestForm) Kind() Kind { return KindStressTest }

func (f StressTestForm) Validate() error {
	return requireFields(
		field{"company name", f.CompanyName},
		field{"industry", f.Industry},
		field{"brief content", f.BriefContent},
	)
}

// ContentForm is input for the content repurposer. Empty Format and Voice
// take the defaults.
type ContentForm struct {
	OriginalContent string
	Format          string
	Voice           string
}

func (ContentForm) Kind() Kind { return KindContent }

func (f ContentForm) Validate() error {
	if err := requireFields(field{"original content", f.OriginalContent}); err != nil {
		return err
	}
	format, voice := f.choices()
	if !slices.Contains(optionValues(Formats), format) {
		return errors.NewInputInvalidError("format", format, optionValues(Formats))
	}
	if !slices.Contains(optionValues(Voices), voice) {
		return errors.NewInputInvalidError("voice", voice, optionValues(Voices))
	}
	return nil
}

func (f ContentForm) choices() (format, voice string) {
	format = strings.TrimSpace(f.Format)
	if format == "" {
		format = DefaultFormat
	}
	voice = strings.TrimSpace(f.Voice)
	if voice == "" {
		voice = DefaultVoice
	}
	return format, voice
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return errors.NewInputRequiredError(f.name)
		}
	}
	return nil
}

// CleanList trims entries and drops blank ones. The result is never nil so
// it encodes as [] rather than null.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SplitList parses a comma separated list as typed into a single input.
func SplitList(s string) []string {
	return CleanList(strings.Split(s, ","))
}
