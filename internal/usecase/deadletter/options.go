package deadletter

import "time"

type Option func(*UseCase)

// Retention is how long processed and failed letters are kept.
func Retention(d time.Duration) Option {
	return func(uc *UseCase) {
		uc.retention = d
	}
}

// StaleAfter is how long a letter may stay in processing before it is reclaimed.
// Keep it above the redrive batch timeout.
func StaleAfter(d time.Duration) Option {
	return func(uc *UseCase) {
		uc.staleAfter = d
	}
}

func Clock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}
