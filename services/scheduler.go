// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRoundTimer sweeps active duels for expired round deadlines so a
// round never stalls on a player who walked away mid-round.
func (s *DuelService) StartRoundTimer() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(5*time.Second),
		gocron.NewTask(func() {
			n, err := s.ExpireRounds(time.Now())
			if err != nil {
				log.Printf("[Scheduler] round expiry sweep failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("[Scheduler] advanced %d timed-out round(s)", n)
			}
		}),
	)
}
