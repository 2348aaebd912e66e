package app

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-space/core/internal/modules/content/post"
	"github.com/inkwell-space/core/internal/modules/stats/analytics"
	pkgcron "github.com/inkwell-space/core/internal/pkg/cron"
	"go.uber.org/zap"
)

const pageViewRetentionDays = 90

// registerCronJobs registers all scheduled background jobs.
func (a *App) registerCronJobs() {
	cronLogger := a.logger.Named("CronService")
	postSvc := post.NewService(a.db)
	analyticsSvc := analytics.NewService(a.db)

	a.sched.Register(pkgcron.Job{
		Name:        "promote_scheduled_posts",
		Description: "发布已到时间的定时文章",
		Interval:    time.Minute,
		Fn: func(ctx context.Context) error {
			promoted, err := postSvc.PromoteScheduled(time.Now())
			if err != nil {
				cronLogger.Warn("定时文章发布失败", zap.Error(err))
				return err
			}
			if promoted > 0 {
				cronLogger.Info(fmt.Sprintf("定时文章发布成功，共 %d 篇", promoted))
			}
			return nil
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "cleanup_page_views",
		Description: fmt.Sprintf("清理 %d 天以上的访问记录", pageViewRetentionDays),
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -pageViewRetentionDays)
			deleted, err := analyticsSvc.Cleanup(cutoff)
			if err != nil {
				cronLogger.Warn("清理访问记录失败", zap.Error(err))
				return err
			}
			cronLogger.Info(fmt.Sprintf("清理访问记录成功，共删除 %d 条", deleted))
			return nil
		},
	})
}
