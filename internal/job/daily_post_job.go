package job

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/valtrilabs/postforge/internal/generator"
	"github.com/valtrilabs/postforge/internal/profile"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// Publisher pushes a finished post to its destination.
type Publisher interface {
	Publish(ctx context.Context, content string) (string, error)
}

// PostGenerator produces one post for a theme, format and retrieval query.
type PostGenerator interface {
	Generate(ctx context.Context, theme, format, query string) (*generator.Result, error)
}

// DailyPostJob picks a random theme and format from the brand profile,
// generates one post and publishes it.
type DailyPostJob struct {
	gen       PostGenerator
	publisher Publisher
	prof      profile.Profile
}

func NewDailyPostJob(gen PostGenerator, publisher Publisher, prof profile.Profile) *DailyPostJob {
	return &DailyPostJob{gen: gen, publisher: publisher, prof: prof}
}

func (j *DailyPostJob) Name() string {
	return "daily_post"
}

func (j *DailyPostJob) Run(ctx context.Context) error {
	theme, format := j.pick()
	query := theme
	if j.prof.Company.Services != "" {
		query = theme + " " + j.prof.Company.Services
	}
	logger := logutil.GetLogger(ctx).With(
		zap.String("theme", theme), zap.String("format", format))

	res, err := j.gen.Generate(ctx, theme, format, query)
	if err != nil {
		return fmt.Errorf("generate post: %w", err)
	}
	if res.RetrievalDegraded {
		logger.Warn("post generated without retrieval context")
	}
	if res.AuditLogErr != nil {
		logger.Warn("post log write failed", zap.Error(res.AuditLogErr))
	}

	postID, err := j.publisher.Publish(ctx, res.Post.Content)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	logger.Info("daily post done", zap.String("post_id", postID))
	return nil
}

func (j *DailyPostJob) pick() (string, string) {
	theme := "industry insights"
	if len(j.prof.Themes) > 0 {
		theme = j.prof.Themes[rand.Intn(len(j.prof.Themes))]
	}
	format := profile.Formats[rand.Intn(len(profile.Formats))]
	return theme, format
}
