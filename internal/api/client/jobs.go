package client

import (
	"context"
	"fmt"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// GetJobHistory returns the run history for a specific scheduled job.
func (c *Client) GetJobHistory(ctx context.Context, jobName string) ([]domain.JobRun, error) {
	var runs []domain.JobRun
	if err := c.get(ctx, fmt.Sprintf("/api/v1/jobs/%s", jobName), &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
