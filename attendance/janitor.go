package attendance

import (
	"context"
	"log"
	"time"
)

// RunJanitor purges expired codes every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration, onError func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				log.Printf("[ERROR] code janitor: %v", err)
				if onError != nil {
					onError(err)
				}
			}
		}
	}
}
