//go:build !linux

package perf

// kernelFacility rejects every open, so each counter ends up "not run".
type kernelFacility struct{}

func (kernelFacility) Open(EventAttr, int) (int, error) { return -1, ErrUnsupportedPlatform }

func (kernelFacility) ID(int) (uint64, error) { return 0, ErrUnsupportedPlatform }

func (kernelFacility) Reset(int) error { return ErrUnsupportedPlatform }

func (kernelFacility) Enable(int) error { return ErrUnsupportedPlatform }

func (kernelFacility) Disable(int) error { return ErrUnsupportedPlatform }

func (kernelFacility) Read(int, []byte) (int, error) { return 0, ErrUnsupportedPlatform }

func (kernelFacility) Close(int) error { return nil }
