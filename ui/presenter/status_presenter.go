package presenter

// StatusView sets the status line in the view.
type StatusView interface{ SetStatus(string) }

// StatusPresenter collects status messages from presenters and the worker
// result handler and reflects the latest one on the next Tick.
type StatusPresenter struct {
	view    StatusView
	latest  string
	pending []string
}

func NewStatusPresenter(view StatusView) *StatusPresenter {
	return &StatusPresenter{view: view}
}

// OnStatus queues a message. Safe to call with a nil receiver.
func (p *StatusPresenter) OnStatus(msg string) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, msg)
}

// Tick pushes the most recent queued message to the view.
func (p *StatusPresenter) Tick() {
	if p == nil || p.view == nil || len(p.pending) == 0 {
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	if last != p.latest {
		p.latest = last
		p.view.SetStatus(last)
	}
}
