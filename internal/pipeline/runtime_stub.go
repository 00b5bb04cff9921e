//go:build !govips || !cgo

package pipeline

func Startup() error {
	return nil
}

func Shutdown() {}

func newSimulator() (Simulator, error) {
	return stdlibSimulator{}, nil
}
