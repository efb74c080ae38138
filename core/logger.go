package core

// Logger is implemented by the application loggers.
// args may carry errors, map[string]interface{} extras or the *http.Request being served.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
