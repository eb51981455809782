package api

import (
	"context"
	"strconv"

	"github.com/YagorVitor/CodeReview/pkg/client"
	"github.com/YagorVitor/CodeReview/pkg/logger"
	"github.com/YagorVitor/CodeReview/pkg/model"
)

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// CreateComment creates a comment on a post, or a reply when ParentID is set
func CreateComment(ctx context.Context, postID int64, c model.NewComment) (*model.Comment, error) {
	logger.Debug("Creating comment", "post_id", postID, "parent_id", c.ParentID)

	var comment Comment
	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetBody(CreateCommentRequest{Content: c.Content, ParentID: c.ParentID}).
		SetResult(&comment).
		SetPathParam("post", itoa(postID)).
		Post("/api/comments/{post}")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	out := comment.ToModel()
	return &out, nil
}

// DeleteComment deletes a comment
func DeleteComment(ctx context.Context, commentID int64) error {
	logger.Debug("Deleting comment", "comment_id", commentID)

	resp, err := client.GetClient().
		R().
		SetContext(ctx).
		SetPathParam("id", itoa(commentID)).
		Delete("/api/comments/{id}")

	return CheckResponse(resp, err)
}
