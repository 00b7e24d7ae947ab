package realtime

import "errors"

var (
	ErrAlreadyRunning   = errors.New("realtime controller already running")
	ErrNoProbeAddress   = errors.New("network probe address is empty")
	ErrBadNetworkTarget = errors.New("network target is not host:port")
)
