package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

const (
	defaultSFTPPort    = 22
	defaultSFTPTimeout = 30 * time.Second
)

// Ensure SFTPChannel implements the interface.
var _ driven.TransferChannel = (*SFTPChannel)(nil)

// SFTPChannel transfers files to and from a partner's SFTP server.
type SFTPChannel struct {
	client *sftp.Client
	conn   io.Closer
	logger *zap.Logger
}

// NewSFTPChannel wraps an established client. conn, if non-nil, is closed with the channel.
func NewSFTPChannel(client *sftp.Client, conn io.Closer, logger *zap.Logger) *SFTPChannel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SFTPChannel{client: client, conn: conn, logger: logger}
}

// DialSFTP connects to the server described by settings.
// Without a known_hosts file the host key is not verified and a warning is logged.
func DialSFTP(ctx context.Context, settings domain.SFTPSettings, logger *zap.Logger) (*SFTPChannel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	auth, err := sshAuth(settings)
	if err != nil {
		return nil, err
	}
	hostKey, err := hostKeyCallback(settings, logger)
	if err != nil {
		return nil, err
	}

	timeout := defaultSFTPTimeout
	if settings.TimeoutSeconds > 0 {
		timeout = time.Duration(settings.TimeoutSeconds) * time.Second
	}
	port := settings.Port
	if port == 0 {
		port = defaultSFTPPort
	}
	addr := net.JoinHostPort(settings.Host, strconv.Itoa(port))

	dialer := net.Dialer{Timeout: timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrTransfer, addr, err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, &ssh.ClientConfig{
		User:            settings.Username,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	})
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("%w: ssh handshake with %s: %v", domain.ErrTransfer, addr, err)
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("%w: start sftp session: %v", domain.ErrTransfer, err)
	}
	logger.Debug("sftp connected", zap.String("addr", addr), zap.String("user", settings.Username))
	return NewSFTPChannel(client, sshClient, logger), nil
}

func sshAuth(settings domain.SFTPSettings) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if settings.PrivateKeyFile != "" {
		key, err := os.ReadFile(settings.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if settings.Password != "" {
		methods = append(methods, ssh.Password(settings.Password))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: sftp needs a password or private_key_file", domain.ErrMissingConfig)
	}
	return methods, nil
}

func hostKeyCallback(settings domain.SFTPSettings, logger *zap.Logger) (ssh.HostKeyCallback, error) {
	if settings.KnownHostsFile == "" {
		logger.Warn("sftp host key not verified, set known_hosts_file", zap.String("host", settings.Host))
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // opt-in via missing known_hosts_file
	}
	cb, err := knownhosts.New(settings.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("load known hosts: %w", err)
	}
	return cb, nil
}

// Fetch downloads every regular file in sourceDir into localDir.
func (c *SFTPChannel) Fetch(ctx context.Context, sourceDir, localDir string) ([]string, error) {
	entries, err := c.client.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", domain.ErrTransfer, sourceDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if !e.Mode().IsRegular() {
			continue
		}
		dst := filepath.Join(localDir, e.Name())
		if err := c.download(path.Join(sourceDir, e.Name()), dst); err != nil {
			return out, fmt.Errorf("%w: fetch %s: %v", domain.ErrTransfer, e.Name(), err)
		}
		out = append(out, dst)
	}
	return out, nil
}

// Deliver uploads localPath to destDir/name.
func (c *SFTPChannel) Deliver(_ context.Context, localPath, destDir, name string) (string, error) {
	dst := path.Join(destDir, name)
	if err := c.upload(localPath, dst); err != nil {
		return "", fmt.Errorf("%w: deliver %s: %v", domain.ErrTransfer, name, err)
	}
	return dst, nil
}

// Move uploads the local copy into destDir and removes the source, renaming
// on the server when either step fails.
func (c *SFTPChannel) Move(_ context.Context, sourceDir, name, localCopy, destDir string) error {
	src := path.Join(sourceDir, name)
	dst := path.Join(destDir, name)
	return move(
		func() error {
			if localCopy == "" {
				tmp, err := os.CreateTemp("", "jtlflow-move-*")
				if err != nil {
					return err
				}
				tmp.Close()
				defer os.Remove(tmp.Name())
				if err := c.download(src, tmp.Name()); err != nil {
					return err
				}
				localCopy = tmp.Name()
			}
			return c.upload(localCopy, dst)
		},
		func() error { return c.client.Remove(src) },
		func() error {
			if err := c.client.MkdirAll(destDir); err != nil {
				return err
			}
			if err := c.client.PosixRename(src, dst); err == nil {
				return nil
			}
			return c.client.Rename(src, dst)
		},
	)
}

// Close ends the SFTP session and the underlying connection.
func (c *SFTPChannel) Close() error {
	err := c.client.Close()
	if c.conn != nil {
		err = errors.Join(err, c.conn.Close())
	}
	return err
}

func (c *SFTPChannel) download(remote, local string) error {
	f, err := c.client.Open(remote)
	if err != nil {
		return err
	}
	defer f.Close()
	return copyToFile(local, f)
}

func (c *SFTPChannel) upload(local, remote string) error {
	src, err := os.Open(local)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := c.client.MkdirAll(path.Dir(remote)); err != nil {
		return err
	}
	dst, err := c.client.Create(remote)
	if err != nil {
		return err
	}
	if _, err := dst.ReadFrom(src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
