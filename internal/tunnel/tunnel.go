// Package tunnel maintains an SSH local port forward to the pricing
// database, which is only reachable from the jump host.
package tunnel

import (
	"fmt"
	"io"
	"net"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
)

// Config describes the SSH forward: connect to Host as User, listen on
// LocalAddr, and forward connections to RemoteAddr on the far side.
type Config struct {
	Host       string
	User       string
	Password   string
	KeyFile    string
	LocalAddr  string
	RemoteAddr string
}

// Tunnel is an open SSH local port forward.
type Tunnel struct {
	logger *zap.Logger
	client *ssh.Client
	ln     net.Listener
	remote string
	done   chan struct{}
}

// Open dials the SSH host and starts forwarding. The caller connects to
// Addr() as if it were the remote service directly.
func Open(cfg Config, logger *zap.Logger) (*Tunnel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("ssh tunnel requires a host")
	}
	if cfg.RemoteAddr == "" {
		return nil, fmt.Errorf("ssh tunnel requires a remote address")
	}
	if cfg.LocalAddr == "" {
		cfg.LocalAddr = "127.0.0.1:0"
	}

	auth, err := AuthMethods(cfg)
	if err != nil {
		return nil, err
	}

	clientCfg := &ssh.ClientConfig{
		User: cfg.User,
		Auth: auth,
		// The jump host is provisioned per environment; host keys rotate
		// with it, matching the original tooling's relaxed checking.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}
	client, err := ssh.Dial("tcp", cfg.Host, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("dial ssh host %s: %w", cfg.Host, err)
	}

	ln, err := net.Listen("tcp", cfg.LocalAddr)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("listen on %s: %w", cfg.LocalAddr, err)
	}

	t := &Tunnel{
		logger: logger,
		client: client,
		ln:     ln,
		remote: cfg.RemoteAddr,
		done:   make(chan struct{}),
	}
	go t.accept()

	logger.Info("ssh tunnel open",
		zap.String("op", "tunnel.Open"),
		zap.String("local", ln.Addr().String()),
		zap.String("remote", cfg.RemoteAddr),
	)
	return t, nil
}

// AuthMethods builds the SSH auth methods from the config: a private key
// file when given, a password otherwise. At least one must be usable.
func AuthMethods(cfg Config) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if cfg.KeyFile != "" {
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read ssh key %s: %w", cfg.KeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse ssh key %s: %w", cfg.KeyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("ssh tunnel requires a key file or password")
	}
	return methods, nil
}

// Addr returns the local address the tunnel listens on.
func (t *Tunnel) Addr() string {
	return t.ln.Addr().String()
}

// Close tears down the listener and the SSH connection.
func (t *Tunnel) Close() error {
	close(t.done)
	_ = t.ln.Close()
	return t.client.Close()
}

func (t *Tunnel) accept() {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			select {
			case <-t.done:
				return
			default:
			}
			t.logger.Warn("tunnel accept failed",
				zap.String("op", "tunnel.accept"),
				zap.Error(err),
			)
			return
		}
		go t.forward(conn)
	}
}

func (t *Tunnel) forward(local net.Conn) {
	remote, err := t.client.Dial("tcp", t.remote)
	if err != nil {
		t.logger.Warn("tunnel forward dial failed",
			zap.String("op", "tunnel.forward"),
			zap.String("remote", t.remote),
			zap.Error(err),
		)
		_ = local.Close()
		return
	}
	go pipe(local, remote)
	go pipe(remote, local)
}

func pipe(dst io.WriteCloser, src io.ReadCloser) {
	defer func() {
		_ = dst.Close()
		_ = src.Close()
	}()
	_, _ = io.Copy(dst, src)
}
