package logger

// LoggerInterface is what the library, engine and playback packages accept,
// so tests can pass the channel Logger or anything else.
type LoggerInterface interface {
	Print(s string)
	Printf(s string, as ...interface{})
	PrintError(source string, err error)
}
