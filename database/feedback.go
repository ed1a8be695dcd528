package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/ukumbi/arenapay/internal/apierror"
	"github.com/ukumbi/arenapay/model"
)

func (d Datasource) CreateFeedback(ctx context.Context, fb *model.Feedback) (*model.Feedback, error) {
	fb.FeedbackID = model.GenerateUUIDWithPrefix("fbk")
	fb.CreatedAt = time.Now()

	_, err := d.Conn.ExecContext(ctx, `
		INSERT INTO arenapay.feedback (feedback_id, player_id, email, message)
		VALUES ($1, $2, $3, $4)
	`, fb.FeedbackID, fb.PlayerID, fb.Email, fb.Message)

	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to create feedback", err)
	}
	return fb, nil
}

func (d Datasource) GetAllFeedback(ctx context.Context, limit, offset int) ([]model.Feedback, error) {
	rows, err := d.Conn.QueryContext(ctx, `
		SELECT feedback_id, player_id, email, message, created_at
		FROM arenapay.feedback
		ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve feedback", err)
	}
	defer rows.Close()

	feedbackList := []model.Feedback{}
	for rows.Next() {
		fb := model.Feedback{}
		var playerID, email sql.NullString
		if err := rows.Scan(&fb.FeedbackID, &playerID, &email, &fb.Message, &fb.CreatedAt); err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan feedback", err)
		}
		fb.PlayerID = playerID.String
		fb.Email = email.String
		feedbackList = append(feedbackList, fb)
	}
	return feedbackList, nil
}
