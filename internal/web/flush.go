package web

import (
	"time"

	"github.com/robfig/cron/v3"

	appLog "gardencal/internal/log"
)

// StartCacheFlusher schedules FlushCache on spec (standard five-field cron)
// in loc and starts the scheduler. The caller stops it with Stop.
func (s *Server) StartCacheFlusher(spec string, loc *time.Location) (*cron.Cron, error) {
	if loc == nil {
		loc = time.Local
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithLocation(loc))

	if _, err := c.AddFunc(spec, func() {
		n := s.FlushCache()
		appLog.Info("dashboard cache flushed", "entries", n)
	}); err != nil {
		return nil, err
	}

	c.Start()
	appLog.Info("cache flush scheduled", "spec", spec, "timezone", loc.String())
	return c, nil
}
