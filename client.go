package adsmux

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrpasztoradam/adsmux/ams"
)

// loopbackHandshake is the fixed 8-byte port-open request the AMS router
// expects on connect: AMS/TCP header with the port-open command word
// (0x1000) and length 2, followed by two zero payload bytes.
var loopbackHandshake = [8]byte{0x00, 0x10, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00}

// handshakeReplySize is the size of the router's handshake reply: a 6-byte
// AMS/TCP header plus the 6-byte assigned NetId and 2-byte assigned port.
const handshakeReplySize = 14

// Client is an ADS client bound to one router connection. It opens a local
// AMS port via the loopback handshake, then multiplexes any number of
// concurrent commands and notification subscriptions over that single TCP
// socket.
type Client struct {
	conn net.Conn

	// writeMu serializes writes to conn: the socket's write half is shared
	// by every concurrent command adapter plus the handshake, and frames
	// must never interleave on the wire.
	writeMu *sync.Mutex

	target ams.Addr // remote device
	sender ams.Addr // our own, assigned by the router handshake

	cfg Config

	invokeID atomic.Uint32

	pending       *pendingTable
	notifications *notificationTable

	logger  *log.Logger
	metrics *clientMetrics

	group   *errgroup.Group
	groupCx context.Context
	cancel  context.CancelFunc

	closed atomic.Bool
}

// Dial connects to the AMS router at cfg.RouterAddr, performs the loopback
// port-open handshake, and starts the client's background goroutines (the
// reader loop and the stale-handle reaper), all supervised by one
// errgroup.Group so a fatal error in either surfaces through Wait.
//
// target is the AmsNetId/port of the device to talk to; it is NOT validated
// against the router's reply — any destination address is accepted up front.
func Dial(ctx context.Context, target ams.Addr, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("adsmux: invalid config: %w", err)
	}

	dialer := &net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.RouterAddr)
	if err != nil {
		return nil, fmt.Errorf("adsmux: dial %s: %w", cfg.RouterAddr, err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
		_ = tcpConn.SetKeepAlive(true)
		_ = tcpConn.SetKeepAlivePeriod(30 * time.Second)
	}

	writeMu := &sync.Mutex{}
	sender, err := handshake(conn, cfg.DialTimeout, writeMu)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if cfg.LocalNetID != "" {
		id, err := ams.ParseAmsNetID(cfg.LocalNetID)
		if err != nil {
			conn.Close()
			return nil, adsErrorFromAms(err)
		}
		sender.NetID = id
	}

	groupCx, cancel := context.WithCancel(context.Background())
	group, groupCx := errgroup.WithContext(groupCx)

	c := &Client{
		conn:          conn,
		writeMu:       writeMu,
		target:        target,
		sender:        sender,
		cfg:           cfg,
		pending:       newPendingTable(),
		notifications: newNotificationTable(),
		logger:        cfg.Logger,
		group:         group,
		groupCx:       groupCx,
		cancel:        cancel,
	}
	c.metrics = newClientMetrics(cfg.MetricsRegisterer, c.pending.len)

	group.Go(func() error { return c.readLoop(groupCx) })
	group.Go(func() error { return c.runReaper(groupCx, cfg.ReaperInterval, cfg.RequestTimeout) })

	return c, nil
}

// handshake performs the 8-byte port-open request and parses the router's
// 14-byte reply into the locally assigned AMS address. Failure to
// send the request at all is a transport problem (ERR_NOIO); a reply
// shorter than the fixed 14 bytes is the router refusing the port
// (ERR_PORTDISABLED). writeMu is the same mutex the client later uses
// to serialize command writes, so the handshake's write never interleaves
// with one racing in from a caller that got the *Client before Dial
// returns.
func handshake(conn net.Conn, timeout time.Duration, writeMu *sync.Mutex) (ams.Addr, error) {
	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
		defer conn.SetDeadline(time.Time{})
	}

	writeMu.Lock()
	_, err := conn.Write(loopbackHandshake[:])
	writeMu.Unlock()
	if err != nil {
		return ams.Addr{}, wrapAdsError(ErrNoIO, "handshake write: %v", err)
	}

	reply := make([]byte, handshakeReplySize)
	if _, err := io.ReadFull(conn, reply); err != nil {
		return ams.Addr{}, wrapAdsError(ErrPortDisabled, "handshake reply: %v", err)
	}

	var sender ams.Addr
	copy(sender.NetID[:], reply[6:12])
	sender.Port = binary.LittleEndian.Uint16(reply[12:14])
	return sender, nil
}

// nextInvokeID returns the next monotonically increasing invoke id. It
// starts counting from 1: invoke id 0 is never assigned to a real request,
// leaving it free to mean "no request" in zero-value Packet headers.
func (c *Client) nextInvokeID() uint32 {
	return c.invokeID.Add(1)
}

// readLoop is the AMS/TCP framing state machine: read the fixed
// 38-byte header, then the payload it announces, then dispatch either to
// the pending-request table (command response) or to the notification
// dispatcher (unsolicited device notification), and loop.
//
// It returns (and the errgroup cancels the sibling reaper goroutine) when
// the connection is closed, a read fails outright, or a header fails to
// parse: the stream has no resync marker, so framing cannot be recovered
// after a bad header. A device notification with a malformed body is
// logged and dropped, not fatal. On return every still-pending request is
// failed with ErrClientClosed.
func (c *Client) readLoop(ctx context.Context) error {
	defer c.pending.abandonAll(ErrClientClosed)

	header := make([]byte, ams.HeaderSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if _, err := io.ReadFull(c.conn, header); err != nil {
			if c.closed.Load() {
				return nil
			}
			return wrapAdsError(ErrNoIO, "read header: %v", err)
		}

		payloadLen, amsErr, invokeID, cmd, err := ams.ParseHeader(header)
		if err != nil {
			return adsErrorFromAms(err)
		}

		frame := make([]byte, ams.HeaderSize+payloadLen)
		copy(frame, header)
		if payloadLen > 0 {
			if _, err := io.ReadFull(c.conn, frame[ams.HeaderSize:]); err != nil {
				if c.closed.Load() {
					return nil
				}
				return wrapAdsError(ErrNoIO, "read payload: %v", err)
			}
		}

		if cmd == ams.CmdDeviceNotification {
			c.dispatchNotification(frame)
			continue
		}

		if !c.pending.complete(invokeID, &pendingResult{payload: frame, amsErr: amsErr}) {
			c.logf("adsmux: response for unknown invoke id %d (cmd %s)", invokeID, cmd)
		}
	}
}

// dispatchNotification decodes an unsolicited device notification frame and
// runs every subscribed callback for the handles it carries. Decode errors
// (a malformed stream, e.g. a stamp/sample whose size exceeds stream_size)
// are logged and the frame is dropped rather than tearing down the
// connection.
func (c *Client) dispatchNotification(frame []byte) {
	var req ams.DeviceNotificationRequest
	if err := req.Decode(ams.NewBuffer(frame)); err != nil {
		c.logf("adsmux: dropping malformed device notification: %v", err)
		return
	}
	for _, stamp := range req.Stamps {
		for _, sample := range stamp.Samples {
			entry, ok := c.notifications.lookup(sample.Handle)
			if !ok {
				continue
			}
			c.metrics.notifications.Inc()
			go func(handle uint32, ts uint64, data []byte, userData any) {
				defer func() {
					if r := recover(); r != nil {
						c.logf("adsmux: notification callback for handle %d panicked: %v", handle, r)
					}
				}()
				entry.callback(handle, ts, data, userData)
			}(sample.Handle, stamp.Timestamp, sample.Data, entry.userData)
		}
	}
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// sendAndWait writes req's already-encoded frame, then blocks until the
// matching response arrives, ctx is cancelled, or the client shuts down.
// There is no per-request timer: the pending table is the single source of
// truth for in-flight requests, and the reaper's heartbeat delivers
// ADSERR_CLIENT_SYNCTIMEOUT through respCh when an entry outlives
// cfg.RequestTimeout.
//
// The write is taken under writeMu: concurrent command adapters each call
// sendAndWait on their own goroutine, and net.Conn.Write being safe to call
// concurrently only guarantees no data race, not that whole frames never
// interleave on the wire.
func (c *Client) sendAndWait(ctx context.Context, invokeID uint32, frame []byte) (*pendingResult, error) {
	if c.closed.Load() {
		return nil, ErrNotConnected
	}
	respCh := c.pending.register(invokeID)

	c.writeMu.Lock()
	_, err := c.conn.Write(frame)
	c.writeMu.Unlock()
	if err != nil {
		c.pending.take(invokeID)
		return nil, wrapAdsError(ErrNoIO, "write: %v", err)
	}

	select {
	case result := <-respCh:
		return result, nil
	case <-ctx.Done():
		c.pending.take(invokeID)
		return nil, ctx.Err()
	case <-c.groupCx.Done():
		c.pending.take(invokeID)
		return nil, ErrClientClosed
	}
}

// Close shuts down the client: it cancels the background goroutines,
// closes the socket, and fails every still-pending request with
// ErrClientClosed. It is safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.cancel()
	err := c.conn.Close()
	c.pending.abandonAll(ErrClientClosed)
	_ = c.group.Wait()
	return err
}

// Wait blocks until the client's background goroutines stop and returns the
// first fatal error any of them encountered (nil on a clean Close).
func (c *Client) Wait() error {
	return c.group.Wait()
}

// LocalAddr returns the AMS address the router assigned this client during
// the handshake.
func (c *Client) LocalAddr() ams.Addr { return c.sender }

// TargetAddr returns the AMS address of the device this client talks to.
func (c *Client) TargetAddr() ams.Addr { return c.target }
