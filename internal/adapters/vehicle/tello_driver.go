package vehicle

import (
	"context"
	"drone-route-service/internal/platform/obs"
	"drone-route-service/internal/ports"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrNotConnected = ports.ErrNotConnected
	ErrAckTimeout   = ports.ErrAckTimeout
	ErrHandshake    = errors.New("tello: command mode refused")
)

// Window used to sweep datagrams already queued on the socket.
const drainWindow = 5 * time.Millisecond

// Defaults for a Tello on its own access point.
const (
	DefaultTelloAddr  = "192.168.10.1:8889"
	DefaultLocalAddr  = ":8889"
	DefaultAckTimeout = 7 * time.Second
)

type TelloConfig struct {
	RemoteAddr string
	LocalAddr  string
	// AckTimeout is how long to wait for a reply before giving up with
	// ErrAckTimeout.
	AckTimeout time.Duration
	// SendRate caps outgoing commands per second; 0 disables pacing.
	SendRate float64
}

// TelloDriver talks to a Tello drone over its UDP text SDK.
//
// Every command is answered with "ok" (NUL padded) or an error string. The
// driver is safe for concurrent use but commands are serialized.
type TelloDriver struct {
	cfg     TelloConfig
	limiter *rate.Limiter

	mu     sync.Mutex
	conn   *net.UDPConn
	remote *net.UDPAddr
	// late is set after an ack timeout: the reply may still be in flight.
	late bool
}

func NewTelloDriver(cfg TelloConfig) *TelloDriver {
	if cfg.RemoteAddr == "" {
		cfg.RemoteAddr = DefaultTelloAddr
	}
	if cfg.LocalAddr == "" {
		cfg.LocalAddr = DefaultLocalAddr
	}
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = DefaultAckTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.SendRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SendRate), 1)
	}

	return &TelloDriver{cfg: cfg, limiter: limiter}
}

// Connect binds the local socket and switches the drone into SDK mode.
func (d *TelloDriver) Connect(ctx context.Context) (err error) {
	defer obs.Time(ctx, "tello.Connect")(&err)

	remote, err := net.ResolveUDPAddr("udp", d.cfg.RemoteAddr)
	if err != nil {
		return fmt.Errorf("tello connect: resolve %q: %w", d.cfg.RemoteAddr, err)
	}
	local, err := net.ResolveUDPAddr("udp", d.cfg.LocalAddr)
	if err != nil {
		return fmt.Errorf("tello connect: resolve %q: %w", d.cfg.LocalAddr, err)
	}

	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return fmt.Errorf("tello connect: listen %q: %w", d.cfg.LocalAddr, err)
	}

	d.mu.Lock()
	if d.conn != nil {
		_ = d.conn.Close()
	}
	d.conn, d.remote, d.late = conn, remote, false
	d.mu.Unlock()

	ok, err := d.Send(ctx, "command")
	if err != nil {
		return fmt.Errorf("tello connect: %w", err)
	}
	if !ok {
		return ErrHandshake
	}

	return nil
}

// Send writes one command and waits for its reply.
//
// The SDK replies carry no command id, so replies are matched by order.
// Anything already queued, including a late reply to a timed-out command,
// is discarded before writing. A missing reply is ErrAckTimeout, never a
// refusal: the drone may have executed the command anyway.
func (d *TelloDriver) Send(ctx context.Context, command string) (bool, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return false, ErrNotConnected
	}

	// Cancelling ctx unblocks the read below.
	conn := d.conn
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	if err := d.drain(ctx); err != nil {
		return false, fmt.Errorf("tello send %q: %w", command, err)
	}

	if _, err := conn.WriteToUDP([]byte(command), d.remote); err != nil {
		return false, fmt.Errorf("tello send %q: %w", command, err)
	}

	reply, err := d.read(ctx, d.cfg.AckTimeout)
	if errors.Is(err, ErrAckTimeout) {
		d.late = true
		obs.Logger(ctx).WithField("command", command).Warn("no reply from drone")
		return false, fmt.Errorf("tello send %q: %w", command, err)
	}
	if err != nil {
		return false, fmt.Errorf("tello read reply to %q: %w", command, err)
	}

	return isOK(reply), nil
}

// drain discards queued datagrams. After a timeout it first gives the
// missing reply one more AckTimeout to arrive.
func (d *TelloDriver) drain(ctx context.Context) error {
	if d.late {
		d.late = false
		reply, err := d.read(ctx, d.cfg.AckTimeout)
		switch {
		case err == nil:
			obs.Logger(ctx).WithField("reply", string(reply)).Debug("discarded late reply")
		case !errors.Is(err, ErrAckTimeout):
			return err
		}
	}

	for {
		_, err := d.read(ctx, drainWindow)
		if errors.Is(err, ErrAckTimeout) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// read returns the next datagram from the drone within wait. Datagrams from
// other senders are ignored.
func (d *TelloDriver) read(ctx context.Context, wait time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(wait)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := d.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	// ctx may have been cancelled before the deadline above replaced the
	// one set by the cancel hook.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, 64)
	for {
		n, from, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				return nil, ErrAckTimeout
			}
			return nil, err
		}

		if !from.IP.Equal(d.remote.IP) || from.Port != d.remote.Port {
			continue
		}

		return append([]byte(nil), buf[:n]...), nil
	}
}

func (d *TelloDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// isOK reports whether reply is an acknowledgement, ignoring NUL padding.
func isOK(reply []byte) bool {
	return strings.TrimSpace(strings.TrimRight(string(reply), "\x00")) == "ok"
}
