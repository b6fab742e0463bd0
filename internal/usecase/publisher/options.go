package publisher

import "time"

type Option func(*Publisher)

// Marshaler replaces the JSON encoder used for message bodies.
func Marshaler(marshal func(v any) ([]byte, error)) Option {
	return func(p *Publisher) {
		p.marshal = marshal
	}
}

func Clock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}
