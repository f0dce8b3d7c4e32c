package agents

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/log"
	"github.com/felixgeelhaar/pressdesk/internal/platform"
)

// Client is the backend surface the Service calls; *platform.Agents implements it.
type Client interface {
	ReputationScan(ctx context.Context, req platform.ReputationRequest) (*platform.ReputationReport, error)
	GenerateBrief(ctx context.Context, req platform.BriefRequest) (*platform.Brief, error)
	StressTest(ctx context.Context, req platform.StressTestRequest) (*platform.StressTestReport, error)
	RepurposeContent(ctx context.Context, req platform.RepurposeRequest) (*platform.RepurposedContent, error)
	DashboardOverview(ctx context.Context) (*platform.Overview, error)
}

// Service validates forms and runs them against the backend.
type Service struct {
	client Client
	logger *log.Logger
}

func NewService(client Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Service{client: client, logger: logger.With("component", "agents")}
}

// Run validates form, sends it to its agent and wraps the answer as a Report.
// Validation errors are *errors.PressdeskError; backend errors are *platform.APIError.
func (s *Service) Run(ctx context.Context, form Form) (Report, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	s.logger.Debug("running agent", "agent", string(form.Kind()))

	var (
		report Report
		err    error
	)
	switch f := form.(type) {
	case ReputationForm:
		var out *platform.ReputationReport
		out, err = s.client.ReputationScan(ctx, platform.ReputationRequest{
			CompanyName: strings.TrimSpace(f.CompanyName),
			URLs:        CleanList(f.URLs),
			Keywords:    CleanList(f.Keywords),
		})
		if err == nil {
			report = ReputationReport{out}
		}
	case BriefForm:
		var out *platform.Brief
		out, err = s.client.GenerateBrief(ctx, platform.BriefRequest{
			CompanyName:        strings.TrimSpace(f.CompanyName),
			ProductDescription: strings.TrimSpace(f.ProductDescription),
			TargetAudience:     strings.TrimSpace(f.TargetAudience),
			KeyMessages:        CleanList(f.KeyMessages),
			CampaignGoals:      CleanList(f.CampaignGoals),
		})
		if err == nil {
			report = BriefReport{out}
		}
	case StressTestForm:
		var out *platform.StressTestReport
		out, err = s.client.StressTest(ctx, platform.StressTestRequest{
			CompanyName:  strings.TrimSpace(f.CompanyName),
			Industry:     strings.TrimSpace(f.Industry),
			BriefContent: strings.TrimSpace(f.BriefContent),
		})
		if err == nil {
			report = StressTestReport{out}
		}
	case ContentForm:
		format, voice := f.choices()
		var out *platform.RepurposedContent
		out, err = s.client.RepurposeContent(ctx, platform.RepurposeRequest{
			OriginalContent: strings.TrimSpace(f.OriginalContent),
			TargetFormat:    format,
			BrandVoice:      voice,
		})
		if err == nil {
			report = ContentReport{out}
		}
	default:
		return nil, fmt.Errorf("unsupported form %T", form)
	}

	if err != nil {
		s.logger.WithError(err).Info("agent call failed", "agent", string(form.Kind()))
		return nil, err
	}
	return report, nil
}

// Overview fetches the dashboard summary.
func (s *Service) Overview(ctx context.Context) (*platform.Overview, error) {
	return s.client.DashboardOverview(ctx)
}

// ErrorMessage is the one-line text to show for a failed Run.
func ErrorMessage(k Kind, err error) string {
	var pdErr *errors.PressdeskError
	if stderrors.As(err, &pdErr) {
		return pdErr.Message
	}
	return platform.Message(err, k.Fallback())
}
