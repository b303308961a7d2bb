package stunutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pion/stun/v3"

	"wlandoctor/internal/addrutil"
)

const (
	NATTypeUnknown          = "unknown"
	NATTypeSymmetric        = "symmetric"
	NATTypeConeOrRestricted = "cone_or_restricted"

	defaultPort = 3478
)

// DefaultServers are public STUN servers used for the outbound UDP check.
var DefaultServers = []string{
	"stun.l.google.com:19302",
	"stun.cloudflare.com:3478",
}

var ErrNoServers = errors.New("no STUN servers provided")

// Mapping is the outcome of a STUN binding check.
type Mapping struct {
	// Addr is the public address seen by the first server that answered.
	Addr    string
	Server  string
	NATType string
	// Answered counts servers that returned a mapped address.
	Answered int
}

// Probe sends binding requests to each server and reports the public mapping.
// It fails only when no server answered.
func Probe(ctx context.Context, servers []string, timeout time.Duration) (Mapping, error) {
	if len(servers) == 0 {
		return Mapping{NATType: NATTypeUnknown}, ErrNoServers
	}

	var (
		m       = Mapping{NATType: NATTypeUnknown}
		addrs   = make([]string, 0, len(servers))
		lastErr error
	)
	for _, server := range servers {
		if err := ctx.Err(); err != nil {
			return m, err
		}
		addr, err := bind(ctx, server, timeout)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", server, err)
			continue
		}
		if m.Addr == "" {
			m.Addr = addr
			m.Server = server
		}
		addrs = append(addrs, addr)
	}

	if len(addrs) == 0 {
		return m, lastErr
	}
	m.Answered = len(addrs)
	m.NATType = Classify(addrs)
	return m, nil
}

// Classify infers NAT type by comparing mapped addresses from multiple servers.
func Classify(addrs []string) string {
	if len(addrs) < 2 {
		return NATTypeUnknown
	}
	for _, addr := range addrs[1:] {
		if addr != addrs[0] {
			return NATTypeSymmetric
		}
	}
	return NATTypeConeOrRestricted
}

func serverURI(server string) (*stun.URI, error) {
	s := strings.TrimPrefix(strings.TrimSpace(server), "stun:")
	addr, ok := addrutil.DialAddr(s, defaultPort)
	if !ok {
		return nil, fmt.Errorf("invalid STUN server %q", server)
	}
	return stun.ParseURI("stun:" + addr)
}

func bind(ctx context.Context, server string, timeout time.Duration) (string, error) {
	uri, err := serverURI(server)
	if err != nil {
		return "", err
	}

	client, err := stun.DialURI(uri, &stun.DialConfig{})
	if err != nil {
		return "", err
	}
	defer client.Close()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type answer struct {
		addr string
		err  error
	}
	done := make(chan answer, 1)
	msg := stun.MustBuild(stun.TransactionID, stun.BindingRequest)

	go func() {
		err := client.Do(msg, func(res stun.Event) {
			if res.Error != nil {
				done <- answer{err: res.Error}
				return
			}
			var xor stun.XORMappedAddress
			if err := xor.GetFrom(res.Message); err != nil {
				done <- answer{err: err}
				return
			}
			done <- answer{addr: xor.String()}
		})
		if err != nil {
			select {
			case done <- answer{err: err}:
			default:
			}
		}
	}()

	select {
	case a := <-done:
		return a.addr, a.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
