package arenapay

import (
	"context"

	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

func (a *Arenapay) SubmitFeedback(ctx context.Context, fb *model.Feedback) (*model.Feedback, error) {
	if fb.Message == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "feedback message is required", nil)
	}
	return a.datasource.CreateFeedback(ctx, fb)
}

func (a *Arenapay) ListFeedback(ctx context.Context, limit, offset int) ([]model.Feedback, error) {
	return a.datasource.GetAllFeedback(ctx, limit, offset)
}
