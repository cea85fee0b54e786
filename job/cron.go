package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"report-assistant/logger"
	"report-assistant/storage"
)

// StartRetentionJob 按 schedule（5 段 cron 表达式）定期清理超过 retentionDays 的分析记录。
// retentionDays <= 0 时不启动，返回 nil。
func StartRetentionJob(store storage.Store, schedule string, retentionDays int) (*cron.Cron, error) {
	if retentionDays <= 0 {
		logger.Log.Info("[Cron] retention disabled")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		rows, err := PurgeExpired(ctx, store, retentionDays, time.Now())
		if err != nil {
			logger.Log.WithError(err).Error("[Cron] purge analyses failed")
			return
		}
		logger.Log.WithFields(logrus.Fields{"deleted": rows, "retention_days": retentionDays}).Info("[Cron] purged expired analyses")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}

// PurgeExpired 删除 now 往前 retentionDays 天之前创建的记录
func PurgeExpired(ctx context.Context, store storage.Store, retentionDays int, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -retentionDays)
	return store.PurgeBefore(ctx, cutoff)
}
