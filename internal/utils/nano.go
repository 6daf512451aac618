package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

var (
	RequestIDSize  = 16
	nanoidAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// RequestID returns a short random id used to correlate log lines of a
// single request.
func RequestID() string {
	return NanoIDSize(RequestIDSize)
}

func NanoIDSize(size int) string {
	if size <= 0 {
		size = RequestIDSize
	}

	return gonanoid.MustGenerate(nanoidAlphabet, size)
}
