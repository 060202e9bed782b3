package store

import (
	"context"
	"errors"
	"time"
)

func (s *Store) addToQueue(importReq *ImportRequest) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	s.queue = append(s.queue, importReq)
}

func (s *Store) QueueLen() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	return len(s.queue)
}

func (s *Store) popQueue() *ImportRequest {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	if len(s.queue) == 0 {
		return nil
	}

	req := s.queue[0]
	s.queue = s.queue[1:]

	return req
}

// availableSlots sums the free slots of the accounts a request may use.
func (s *Store) availableSlots(ctx context.Context, selected string) int {
	total := 0
	for name, client := range s.debrid.Clients() {
		if selected != "" && name != selected {
			continue
		}

		slots, err := client.GetAvailableSlots(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Str("debrid", name).Msg("failed to get available slots")
			continue
		}
		total += slots
	}

	return total
}

// ProcessQueue retries queued requests while the accounts have free slots.
// A request that fails is logged and dropped, its torrent left in state
// error, and the next one is tried. It returns the number of requests taken
// off the queue.
func (s *Store) ProcessQueue(ctx context.Context) (int, error) {
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		req := s.popQueue()
		if req == nil {
			return processed, nil
		}

		if s.availableSlots(ctx, req.SelectedDebrid) == 0 {
			s.requeue(req)
			return processed, nil
		}

		torrent, err := s.AddTorrent(ctx, req)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return processed, ctxErr
			}

			s.logger.Error().Err(err).Msgf("failed to add queued torrent %s", req.Magnet.Name)
			processed++
			continue
		}
		if torrent.State == StateQueued {
			// AddTorrent put it back already
			return processed, nil
		}

		processed++
	}
}

// RunQueue calls ProcessQueue every interval until ctx ends.
func (s *Store) RunQueue(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.ProcessQueue(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error().Err(err).Msg("failed to process queue")
			}
		}
	}
}

func (s *Store) requeue(req *ImportRequest) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	s.queue = append([]*ImportRequest{req}, s.queue...)
}
