package command

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/listener"
	"github.com/pixil98/go-service"
	"golang.org/x/crypto/ssh"
)

type AdminProtocol int

const (
	AdminProtocolTelnet AdminProtocol = iota
	AdminProtocolSSH
)

func (p *AdminProtocol) UnmarshalText(text []byte) error {
	switch string(text) {
	case "telnet":
		*p = AdminProtocolTelnet
	case "ssh":
		*p = AdminProtocolSSH
	default:
		return fmt.Errorf("unknown admin protocol: %s", text)
	}
	return nil
}

type AdminConfig struct {
	Protocol    AdminProtocol `json:"protocol"`
	Port        uint16        `json:"port"`
	HostKeyPath string        `json:"host_key_path,omitempty"`
}

func (c *AdminConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Port == 0 {
		el.Add(fmt.Errorf("port must be set to a positive integer"))
	}

	return el.Err()
}

func (c *AdminConfig) BuildListener(cm *listener.ConnectionManager) (service.Worker, error) {
	switch c.Protocol {
	case AdminProtocolTelnet:
		return listener.NewTelnetListener(c.Port, cm), nil
	case AdminProtocolSSH:
		hostKey, err := c.loadOrGenerateHostKey()
		if err != nil {
			return nil, fmt.Errorf("setting up ssh host key: %w", err)
		}
		return listener.NewSshListener(c.Port, cm, hostKey), nil
	default:
		return nil, fmt.Errorf("unknown admin protocol: %v", c.Protocol)
	}
}

func (c *AdminConfig) loadOrGenerateHostKey() (ssh.Signer, error) {
	if c.HostKeyPath != "" {
		keyBytes, err := os.ReadFile(c.HostKeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading host key %q: %w", c.HostKeyPath, err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing host key %q: %w", c.HostKeyPath, err)
		}
		return signer, nil
	}

	slog.Warn("no host_key_path configured for ssh console, generating ephemeral key")
	_, privKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating ephemeral key: %w", err)
	}
	signer, err := ssh.NewSignerFromKey(privKey)
	if err != nil {
		return nil, fmt.Errorf("creating signer from ephemeral key: %w", err)
	}
	return signer, nil
}
