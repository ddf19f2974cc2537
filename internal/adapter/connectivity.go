package adapter

import (
	"context"
	"net"
	"net/url"
	"sync"
	"time"
)

const (
	defaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 3 * time.Second
)

// ProbeConnectivity watches reachability of the festival API by dialing
// its host on a fixed interval. State transitions from offline to online
// notify subscribers, which is how the Background Sync Service reacts to
// connectivity regained without polling the queue itself.
type ProbeConnectivity struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	wifi     bool
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)

	mu     sync.Mutex
	online bool
	nextID int
	subs   map[int]func()

	cancel context.CancelFunc
	done   chan struct{}
}

// NewProbeConnectivity builds a connectivity watcher for the API at
// baseURL. The wifi flag is a static hint from the deployment: handheld
// scanners on the venue Wi-Fi set it true, cellular fallbacks set it
// false. Call Start to begin probing and Close to stop.
func NewProbeConnectivity(baseURL string, wifi bool) (*ProbeConnectivity, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	host := u.Host
	if u.Port() == "" {
		port := "443"
		if u.Scheme == "http" {
			port = "80"
		}
		host = net.JoinHostPort(u.Hostname(), port)
	}

	d := &net.Dialer{}
	return &ProbeConnectivity{
		addr:     host,
		interval: defaultProbeInterval,
		timeout:  defaultProbeTimeout,
		wifi:     wifi,
		dial:     d.DialContext,
		subs:     make(map[int]func()),
	}, nil
}

// Start launches the probe loop. The first probe runs immediately so
// IsOnline reflects reality right after startup.
func (p *ProbeConnectivity) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	p.probe(ctx)

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.probe(ctx)
			}
		}
	}()
}

// Close stops the probe loop and waits for it to exit.
func (p *ProbeConnectivity) Close() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// IsOnline implements [Connectivity].
func (p *ProbeConnectivity) IsOnline() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// IsWifi implements [Connectivity].
func (p *ProbeConnectivity) IsWifi() bool {
	return p.wifi
}

// Subscribe implements [Connectivity]. fn fires on every offline to
// online transition until the returned unsubscribe is called.
func (p *ProbeConnectivity) Subscribe(fn func()) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *ProbeConnectivity) probe(ctx context.Context) {
	dctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(dctx, "tcp", p.addr)
	if conn != nil {
		_ = conn.Close()
	}
	p.setOnline(err == nil)
}

func (p *ProbeConnectivity) setOnline(online bool) {
	p.mu.Lock()
	regained := online && !p.online
	p.online = online
	var subs []func()
	if regained {
		subs = make([]func(), 0, len(p.subs))
		for _, fn := range p.subs {
			subs = append(subs, fn)
		}
	}
	p.mu.Unlock()

	// Callbacks run outside the lock so a subscriber may unsubscribe
	// from within its own callback.
	for _, fn := range subs {
		fn()
	}
}

// StaticDevicePolicy is the [DevicePolicy] for mains-powered installs
// such as gate controllers, where charging state never changes.
type StaticDevicePolicy struct {
	Charging bool
}

// IsCharging implements [DevicePolicy].
func (s StaticDevicePolicy) IsCharging() bool {
	return s.Charging
}
