package face

import "sync"

// LatestFrame keeps only the newest pushed probe.
type LatestFrame struct {
	mu    sync.Mutex
	probe *Probe
}

func (f *LatestFrame) Push(p *Probe) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probe = p
}

func (f *LatestFrame) Latest() (*Probe, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probe, f.probe != nil
}
