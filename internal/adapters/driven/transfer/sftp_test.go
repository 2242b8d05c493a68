package transfer

import (
	"context"
	"io"
	"net"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

func newInMemSFTP(t *testing.T) *SFTPChannel {
	t.Helper()
	serverConn, clientConn := net.Pipe()
	server := sftp.NewRequestServer(serverConn, sftp.InMemHandler())
	go func() { _ = server.Serve() }()

	client, err := sftp.NewClientPipe(clientConn, clientConn)
	require.NoError(t, err)
	ch := NewSFTPChannel(client, server, nil)
	t.Cleanup(func() { _ = ch.Close() })
	return ch
}

func putRemote(t *testing.T, c *SFTPChannel, remote, content string) {
	t.Helper()
	require.NoError(t, c.client.MkdirAll(filepath.ToSlash(filepath.Dir(remote))))
	f, err := c.client.Create(remote)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func getRemote(t *testing.T, c *SFTPChannel, remote string) string {
	t.Helper()
	f, err := c.client.Open(remote)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func TestSFTPChannel_Fetch(t *testing.T) {
	c := newInMemSFTP(t)
	putRemote(t, c, "/Incoming/ORD2.txt", "two")
	putRemote(t, c, "/Incoming/ORD1.txt", "one")
	require.NoError(t, c.client.Mkdir("/Incoming/Archives"))
	local := t.TempDir()

	got, err := c.Fetch(context.Background(), "/Incoming", local)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(local, "ORD1.txt"), filepath.Join(local, "ORD2.txt")}, got)
	assert.Equal(t, "one", readFile(t, got[0]))
}

func TestSFTPChannel_Deliver(t *testing.T) {
	c := newInMemSFTP(t)
	src := filepath.Join(t.TempDir(), "out.dat")
	writeFile(t, src, "payload")

	dst, err := c.Deliver(context.Background(), src, "/Outgoing/daily", "client.csv")
	require.NoError(t, err)
	assert.Equal(t, "/Outgoing/daily/client.csv", dst)
	assert.Equal(t, "payload", getRemote(t, c, dst))
}

func TestSFTPChannel_Move(t *testing.T) {
	c := newInMemSFTP(t)
	putRemote(t, c, "/Incoming/ORD1.txt", "one")
	local := filepath.Join(t.TempDir(), "ORD1.txt")
	writeFile(t, local, "one")

	require.NoError(t, c.Move(context.Background(), "/Incoming", "ORD1.txt", local, "/"+domain.ArchiveDir))
	assert.Equal(t, "one", getRemote(t, c, "/Incoming/Archives/ORD1.txt"))
	_, err := c.client.Stat("/Incoming/ORD1.txt")
	assert.Error(t, err)
}

func TestSFTPChannel_MoveDownloadsWithoutLocalCopy(t *testing.T) {
	c := newInMemSFTP(t)
	putRemote(t, c, "/Incoming/ORD9.txt", "nine")

	require.NoError(t, c.Move(context.Background(), "/Incoming", "ORD9.txt", "", "/"+domain.DeadLetterDir))
	assert.Equal(t, "nine", getRemote(t, c, "/Incoming/DeadLetter/ORD9.txt"))
}

func TestSFTPChannel_FetchMissingDir(t *testing.T) {
	c := newInMemSFTP(t)

	_, err := c.Fetch(context.Background(), "/nope", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrTransfer)
}

func TestDialSFTP_RequiresCredentials(t *testing.T) {
	_, err := DialSFTP(context.Background(), domain.SFTPSettings{Host: "localhost", Username: "u"}, nil)
	assert.ErrorIs(t, err, domain.ErrMissingConfig)
}
