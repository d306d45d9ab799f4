package k8s

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/httpstream"
	"k8s.io/client-go/transport/spdy"
)

const portForwardProtocol = "portforward.k8s.io"

var portForwardRequestID uint64

// CreateHttpTransport returns a transport whose every dial opens a fresh
// port-forward stream pair to podPort on podName.
func (c *Connection) CreateHttpTransport(podName string, podPort int) (*http.Transport, error) {
	portForwardURL := c.restClient.Post().
		Resource("pods").
		Namespace(c.namespace).
		Name(podName).
		SubResource("portforward").
		URL()

	baseTransport, upgrader, err := spdy.RoundTripperFor(c.restConfig)
	if err != nil {
		return nil, err
	}

	remote := streamAddr{network: "tcp", addr: fmt.Sprintf("pod/%s:%d", podName, podPort)}

	return &http.Transport{
		DisableKeepAlives: true,
		DialContext: func(_ context.Context, network, _ string) (net.Conn, error) {
			dialer := spdy.NewDialer(upgrader, &http.Client{Transport: baseTransport}, http.MethodPost, portForwardURL)
			conn, _, err := dialer.Dial(portForwardProtocol)
			if err != nil {
				return nil, fmt.Errorf("unable to dial portforward protocol: %w", err)
			}

			headers := http.Header{}
			headers.Set(corev1.StreamType, corev1.StreamTypeError)
			headers.Set(corev1.PortHeader, strconv.Itoa(podPort))
			headers.Set(corev1.PortForwardRequestIDHeader, strconv.FormatUint(atomic.AddUint64(&portForwardRequestID, 1), 10))

			errStream, err := conn.CreateStream(headers)
			if err != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("unable to open error stream: %w", err)
			}
			go c.drainErrorStream(remote.String(), errStream)

			headers.Set(corev1.StreamType, corev1.StreamTypeData)
			dataStream, err := conn.CreateStream(headers)
			if err != nil {
				_ = errStream.Close()
				_ = conn.Close()
				return nil, fmt.Errorf("unable to open data stream: %w", err)
			}

			return &streamConn{
				data:   dataStream,
				errs:   errStream,
				conn:   conn,
				local:  streamAddr{network: network, addr: "127.0.0.1:0"},
				remote: remote,
			}, nil
		},
	}, nil
}

func (c *Connection) drainErrorStream(target string, stream httpstream.Stream) {
	defer func() { _ = stream.Close() }()

	msg, err := io.ReadAll(stream)
	switch {
	case err != nil && err != io.EOF:
		c.log.Warnw("port-forward error stream unreadable", "target", target, "error", err)
	case len(msg) > 0:
		c.log.Warnw("port-forward error", "target", target, "message", string(msg))
	}
}

// streamConn adapts a port-forward data stream to net.Conn. Deadlines are
// not supported by SPDY streams and are ignored.
type streamConn struct {
	data   httpstream.Stream
	errs   httpstream.Stream
	conn   httpstream.Connection
	local  net.Addr
	remote net.Addr

	mu     sync.Mutex
	closed bool
}

func (s *streamConn) Read(b []byte) (int, error)  { return s.data.Read(b) }
func (s *streamConn) Write(b []byte) (int, error) { return s.data.Write(b) }

func (s *streamConn) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.data.Close()
	_ = s.errs.Close()
	return s.conn.Close()
}

func (s *streamConn) LocalAddr() net.Addr              { return s.local }
func (s *streamConn) RemoteAddr() net.Addr             { return s.remote }
func (s *streamConn) SetDeadline(time.Time) error      { return nil }
func (s *streamConn) SetReadDeadline(time.Time) error  { return nil }
func (s *streamConn) SetWriteDeadline(time.Time) error { return nil }

type streamAddr struct {
	network string
	addr    string
}

func (a streamAddr) Network() string { return a.network }
func (a streamAddr) String() string  { return a.addr }
