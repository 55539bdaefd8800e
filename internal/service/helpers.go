package service

type noopNotifier struct{}

func (noopNotifier) Success(string, string) string { return "" }
func (noopNotifier) Error(string, string) string   { return "" }
func (noopNotifier) Warning(string, string) string { return "" }
func (noopNotifier) Info(string, string) string    { return "" }

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
