package application

// Observer receives operation outcomes for instrumentation. Implementations
// must be safe for concurrent use.
type Observer interface {
	ObserveMutation(operation string, err error)
	ObserveLogin(role Role, succeeded bool)
}

type noopObserver struct{}

func (noopObserver) ObserveMutation(string, error) {}
func (noopObserver) ObserveLogin(Role, bool)       {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return noopObserver{}
	}
	return o
}
