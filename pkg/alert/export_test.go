package alert

import "time"

// SetDismissAfter shortens the auto-dismiss delay in tests.
func SetDismissAfter(s *PushSink, d time.Duration) {
	s.dismissAfter = d
}
