package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"giro-settlement/internal/domain"
)

// SFTPConfig describes the bank's SFTP server.
type SFTPConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	KeyFile    string `yaml:"key_file"`
	Passphrase string `yaml:"passphrase"`
	// HostKey is the server key in authorized_keys format. When empty the
	// host key is not checked, which is only acceptable against a test
	// server.
	HostKey string        `yaml:"host_key"`
	Timeout time.Duration `yaml:"timeout"`
	Dirs    Dirs          `yaml:"-"`
}

// Validate reports missing connection settings.
func (c SFTPConfig) Validate() error {
	if c.Host == "" {
		return errors.New("sftp.host is required")
	}
	if c.User == "" {
		return errors.New("sftp.user is required")
	}
	if c.Password == "" && c.KeyFile == "" {
		return errors.New("sftp.password or sftp.key_file is required")
	}
	if c.Dirs.Outbox == "" {
		return errors.New("sftp.dirs.outbox is required")
	}
	return nil
}

// SFTPChannel delivers files to the bank over SFTP. Each operation opens its
// own session; runs are a few times a day.
type SFTPChannel struct {
	dirs Dirs
	dial func(ctx context.Context) (*sftp.Client, func() error, error)
}

// NewSFTPChannel builds an SSH client configuration from cfg. No connection
// is made until the first operation.
func NewSFTPChannel(cfg SFTPConfig) (*SFTPChannel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clientConfig, err := sshConfig(cfg)
	if err != nil {
		return nil, err
	}
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))

	dial := func(ctx context.Context) (*sftp.Client, func() error, error) {
		d := net.Dialer{Timeout: clientConfig.Timeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to %s: %w", addr, err)
		}
		sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
		if err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("could not open ssh session to %s: %w", addr, err)
		}
		sshClient := ssh.NewClient(sshConn, chans, reqs)
		client, err := sftp.NewClient(sshClient)
		if err != nil {
			sshClient.Close()
			return nil, nil, fmt.Errorf("could not start sftp on %s: %w", addr, err)
		}
		return client, func() error {
			client.Close()
			return sshClient.Close()
		}, nil
	}
	return &SFTPChannel{dirs: cfg.Dirs, dial: dial}, nil
}

// NewSFTPChannelWithClient uses an already open client. The caller closes it.
func NewSFTPChannelWithClient(client *sftp.Client, dirs Dirs) *SFTPChannel {
	return &SFTPChannel{
		dirs: dirs,
		dial: func(context.Context) (*sftp.Client, func() error, error) {
			return client, func() error { return nil }, nil
		},
	}
}

func sshConfig(cfg SFTPConfig) (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod
	if cfg.KeyFile != "" {
		pem, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("could not read key file: %w", err)
		}
		var signer ssh.Signer
		if cfg.Passphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(pem, []byte(cfg.Passphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(pem)
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse key file: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}

	hostKey := ssh.InsecureIgnoreHostKey()
	if cfg.HostKey != "" {
		key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(cfg.HostKey))
		if err != nil {
			return nil, fmt.Errorf("could not parse host key: %w", err)
		}
		hostKey = ssh.FixedHostKey(key)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	}, nil
}

func (c *SFTPChannel) session(ctx context.Context, fn func(client *sftp.Client) error) error {
	client, closeFn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(client)
}

// Upload implements usecase.DeliveryChannel.
func (c *SFTPChannel) Upload(ctx context.Context, name string, data []byte) error {
	target := path.Join(c.dirs.Outbox, path.Base(name))
	return c.session(ctx, func(client *sftp.Client) error {
		f, err := client.Create(target)
		if err != nil {
			return fmt.Errorf("could not create %s: %w", target, err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("could not write %s: %w", target, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("could not close %s: %w", target, err)
		}
		return nil
	})
}

// ListReceipts implements usecase.DeliveryChannel.
func (c *SFTPChannel) ListReceipts(ctx context.Context) ([]string, error) {
	var names []string
	err := c.session(ctx, func(client *sftp.Client) error {
		infos, err := remoteFiles(client, c.dirs.Receipts)
		if err != nil {
			return fmt.Errorf("could not list receipts: %w", err)
		}
		for _, info := range infos {
			names = append(names, info.Name())
		}
		return nil
	})
	return names, err
}

// LatestOCRFile implements usecase.DeliveryChannel.
func (c *SFTPChannel) LatestOCRFile(ctx context.Context) (*domain.InboundFile, error) {
	var file *domain.InboundFile
	err := c.session(ctx, func(client *sftp.Client) error {
		infos, err := remoteFiles(client, c.dirs.Inbox)
		if err != nil {
			return fmt.Errorf("could not list inbox: %w", err)
		}
		latest := newest(infos)
		if latest == nil {
			return nil
		}
		name := path.Join(c.dirs.Inbox, latest.Name())
		f, err := client.Open(name)
		if err != nil {
			return fmt.Errorf("could not open %s: %w", name, err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", name, err)
		}
		file = &domain.InboundFile{Name: latest.Name(), Modified: latest.ModTime(), Data: data}
		return nil
	})
	return file, err
}

// remoteFiles lists regular, non-hidden files. A missing directory is empty.
func remoteFiles(client *sftp.Client, dir string) ([]os.FileInfo, error) {
	if dir == "" {
		return nil, nil
	}
	infos, err := client.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := infos[:0]
	for _, info := range infos {
		if info.Mode().IsRegular() && !hidden(info.Name()) {
			out = append(out, info)
		}
	}
	return out, nil
}
