// Package trigger fires the remote recompute workflow and confirms it was
// accepted. The audit only depends on being able to re-read records after
// the workflow completes; completion itself arrives through the callback
// listener.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spriced-qa/pricing-audit/pkg/constants"
	"go.uber.org/zap"
)

// Trigger posts workflow-run requests to the scheduler endpoint.
type Trigger struct {
	client *resty.Client
	logger *zap.Logger
}

// New constructs a Trigger against the scheduler base URL. The remote
// scheduler is flaky right after a deployment, so requests retry with a
// backoff before the run is reported as failed.
func New(baseURL string, logger *zap.Logger) *Trigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetRetryCount(constants.DefaultTriggerRetries).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(30 * time.Second)
	return &Trigger{client: client, logger: logger}
}

// RunWorkflow requests an asynchronous run of the named workflow, passing
// the callback URL the workflow posts to on completion. Fire-and-confirm:
// a 2xx response means the run was accepted, nothing more.
func (t *Trigger) RunWorkflow(ctx context.Context, workflow, callbackURL string) error {
	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"callbackUrl": callbackURL}).
		Post(fmt.Sprintf("/workflow/runWorkflow/%s", workflow))
	if err != nil {
		return fmt.Errorf("trigger workflow %s: %w", workflow, err)
	}
	if resp.IsError() {
		return fmt.Errorf("trigger workflow %s: unexpected status %s", workflow, resp.Status())
	}
	t.logger.Info("workflow triggered",
		zap.String("op", "trigger.Trigger.RunWorkflow"),
		zap.String("workflow", workflow),
		zap.String("status", resp.Status()),
	)
	return nil
}
