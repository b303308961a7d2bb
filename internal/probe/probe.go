// Package probe runs local network checks: ping, DNS, TCP reachability and
// STUN binding.
package probe

//go:generate mockgen -destination=mock_prober.go -package=probe wlandoctor/internal/probe Prober

import (
	"context"
	"net"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"wlandoctor/internal/execx"
	"wlandoctor/internal/stunutil"
)

// Prober is the set of local checks the troubleshooter depends on.
type Prober interface {
	Ping(ctx context.Context, target string, count int, interval time.Duration) (PingResult, error)
	Resolve(ctx context.Context, host string) ([]string, error)
	Dial(ctx context.Context, addr string) (time.Duration, error)
	MappedAddress(ctx context.Context, servers []string) (stunutil.Mapping, error)
}

const DefaultTimeout = 10 * time.Second

// Local probes from the host the tool runs on.
type Local struct {
	runner   execx.Runner
	resolver *net.Resolver
	dialer   *net.Dialer
	timeout  time.Duration
	goos     string
	log      zerolog.Logger
}

// Option customizes Local.
type Option func(*Local)

func WithRunner(r execx.Runner) Option { return func(l *Local) { l.runner = r } }

func WithResolver(r *net.Resolver) Option { return func(l *Local) { l.resolver = r } }

func WithTimeout(d time.Duration) Option { return func(l *Local) { l.timeout = d } }

// WithGOOS selects the ping flavor; tests use it to exercise Windows parsing.
func WithGOOS(goos string) Option { return func(l *Local) { l.goos = goos } }

func NewLocal(log zerolog.Logger, opts ...Option) *Local {
	l := &Local{
		runner:   execx.NewOSRunner(),
		resolver: net.DefaultResolver,
		dialer:   &net.Dialer{},
		timeout:  DefaultTimeout,
		goos:     runtime.GOOS,
		log:      log.With().Str("component", "probe").Logger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Local) Resolve(ctx context.Context, host string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	addrs, err := l.resolver.LookupHost(ctx, host)
	l.log.Debug().Str("host", host).Strs("addrs", addrs).Err(err).Msg("DNS lookup")
	return addrs, err
}

func (l *Local) Dial(ctx context.Context, addr string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	conn, err := l.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		l.log.Debug().Str("addr", addr).Err(err).Msg("TCP dial failed")
		return 0, err
	}
	_ = conn.Close()
	rtt := time.Since(start)
	l.log.Debug().Str("addr", addr).Dur("rtt", rtt).Msg("TCP dial")
	return rtt, nil
}

func (l *Local) MappedAddress(ctx context.Context, servers []string) (stunutil.Mapping, error) {
	if len(servers) == 0 {
		servers = stunutil.DefaultServers
	}
	m, err := stunutil.Probe(ctx, servers, l.timeout)
	l.log.Debug().Str("mapped", m.Addr).Str("nat_type", m.NATType).Err(err).Msg("STUN binding")
	return m, err
}
