package platform

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer credential for agent calls.
type TokenSource interface {
	Token() string
}

// ReputationRequest asks the reputation agent to analyze media coverage.
type ReputationRequest struct {
	CompanyName string   `json:"company_name"`
	URLs        []string `json:"urls"`
	Keywords    []string `json:"keywords"`
}

// ReputationReport is the reputation agent's result.
type ReputationReport struct {
	CompanyName      string    `json:"company_name"`
	AnalysisDate     Timestamp `json:"analysis_date"`
	SentimentScore   float64   `json:"sentiment_score"`
	TotalMentions    int       `json:"total_mentions"`
	PositiveMentions int       `json:"positive_mentions"`
	NegativeMentions int       `json:"negative_mentions"`
	NeutralMentions  int       `json:"neutral_mentions"`
	KeyThemes        []string  `json:"key_themes"`
	DetailedAnalysis string    `json:"detailed_analysis"`
	Recommendations  []string  `json:"recommendations"`
}

// BriefRequest asks the brief agent for a PR brief.
type BriefRequest struct {
	CompanyName        string   `json:"company_name"`
	ProductDescription string   `json:"product_description"`
	TargetAudience     string   `json:"target_audience"`
	KeyMessages        []string `json:"key_messages"`
	CampaignGoals      []string `json:"campaign_goals"`
}

// Brief is a generated PR brief.
type Brief struct {
	CompanyName      string    `json:"company_name"`
	BriefID          string    `json:"brief_id"`
	CreatedAt        Timestamp `json:"created_at"`
	BriefContent     string    `json:"brief_content"`
	StoryAngles      []string  `json:"story_angles"`
	RecommendedMedia []string  `json:"recommended_media"`
}

// StressTestRequest asks the stress-test agent for hostile press questions.
type StressTestRequest struct {
	BriefContent string `json:"brief_content"`
	CompanyName  string `json:"company_name"`
	Industry     string `json:"industry"`
}

// StressTestReport lists the questions a spokesperson should prepare for.
type StressTestReport struct {
	CompanyName       string    `json:"company_name"`
	TestID            string    `json:"test_id"`
	CreatedAt         Timestamp `json:"created_at"`
	Industry          string    `json:"industry"`
	Questions         string    `json:"questions"`
	OverallDifficulty string    `json:"overall_difficulty"`
	PreparationTips   []string  `json:"preparation_tips"`
}

// RepurposeRequest asks the content agent to rewrite content for a platform.
type RepurposeRequest struct {
	OriginalContent string `json:"original_content"`
	TargetFormat    string `json:"target_format"`
	BrandVoice      string `json:"brand_voice"`
}

// RepurposedContent is the content agent's result.
type RepurposedContent struct {
	OriginalContentPreview string    `json:"original_content_preview"`
	TargetFormat           string    `json:"target_format"`
	BrandVoice             string    `json:"brand_voice"`
	RepurposedContent      string    `json:"repurposed_content"`
	CreatedAt              Timestamp `json:"created_at"`
	EstimatedEngagement    string    `json:"estimated_engagement"`
	PlatformTips           []string  `json:"platform_tips"`
}

// Overview is the dashboard summary for the signed-in user.
type Overview struct {
	User struct {
		Name    string `json:"name"`
		Company string `json:"company"`
	} `json:"user"`
	Stats            OverviewStats `json:"stats"`
	RecentActivities []Activity    `json:"recent_activities"`
}

// OverviewStats counts the user's stored agent results.
type OverviewStats struct {
	TotalAnalyses      int `json:"total_analyses"`
	TotalBriefs        int `json:"total_briefs"`
	TotalStressTests   int `json:"total_stress_tests"`
	TotalContentPieces int `json:"total_content_pieces"`
}

// Activity is one entry in the recent activity feed.
type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Agents calls the authenticated agent endpoints. The bearer token is read
// from the TokenSource on every request, so a logout takes effect immediately.
type Agents struct {
	client  *Client
	tokens  TokenSource
	limiter *rate.Limiter
}

// NewAgents creates an agent service. rps <= 0 disables client-side rate limiting.
func NewAgents(client *Client, tokens TokenSource, rps float64) *Agents {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
	return &Agents{client: client, tokens: tokens, limiter: limiter}
}

// ReputationScan runs the media reputation agent.
func (a *Agents) ReputationScan(ctx context.Context, req ReputationRequest) (*ReputationReport, error) {
	var out ReputationReport
	if err := a.post(ctx, "/api/agents/reputation-scan", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateBrief runs the PR brief agent.
func (a *Agents) GenerateBrief(ctx context.Context, req BriefRequest) (*Brief, error) {
	var out Brief
	if err := a.post(ctx, "/api/agents/brief-generation", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StressTest runs the crisis stress-test agent.
func (a *Agents) StressTest(ctx context.Context, req StressTestRequest) (*StressTestReport, error) {
	var out StressTestReport
	if err := a.post(ctx, "/api/agents/stress-test", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RepurposeContent runs the content repurposing agent.
func (a *Agents) RepurposeContent(ctx context.Context, req RepurposeRequest) (*RepurposedContent, error) {
	var out RepurposedContent
	if err := a.post(ctx, "/api/agents/content-repurpose", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardOverview fetches stats and recent activity.
func (a *Agents) DashboardOverview(ctx context.Context) (*Overview, error) {
	var out Overview
	if err := a.send(ctx, call{method: http.MethodGet, path: "/api/dashboard/overview"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Agents) post(ctx context.Context, path string, body, out any) error {
	return a.send(ctx, call{method: http.MethodPost, path: path, body: body}, out)
}

func (a *Agents) send(ctx context.Context, rc call, out any) error {
	rc.token = a.tokens.Token()
	if rc.token == "" {
		return &APIError{Kind: AuthRejected, Path: rc.path, Detail: "Not authenticated"}
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return &APIError{Kind: NetworkFailure, Path: rc.path, Cause: fmt.Errorf("rate limit: %w", err)}
	}
	return a.client.do(ctx, rc, out)
}
