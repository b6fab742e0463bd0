package imageset

import "github.com/andreyxaxa/Image-Set-Mapper/internal/entity"

type Kind int

const (
	Skipped Kind = iota
	Mapped
	Failed
)

func (k Kind) String() string {
	switch k {
	case Skipped:
		return "skipped"
	case Mapped:
		return "mapped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of handling one inbound event.
type Outcome struct {
	Kind      Kind
	Content   *entity.Content
	Reason    string
	Err       error
	Retryable bool
}

// Handled reports whether the event can be acknowledged.
func (o Outcome) Handled() bool {
	return o.Kind != Failed
}

func skipped(reason string) Outcome {
	return Outcome{Kind: Skipped, Reason: reason}
}

func mapped(content *entity.Content) Outcome {
	return Outcome{Kind: Mapped, Content: content}
}

func failed(reason string, err error, retryable bool) Outcome {
	return Outcome{Kind: Failed, Reason: reason, Err: err, Retryable: retryable}
}
