// Package nas provides the SSH preflight used by the check command.
package nas

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// Target is a parsed rsync-style remote location ([user@]host:path).
type Target struct {
	User string
	Host string
	Path string
}

// ParseTarget splits an rsync-style remote location. Plain local paths (no
// host part) are rejected. A missing user falls back to $USER.
func ParseTarget(s string) (Target, error) {
	head, path, ok := strings.Cut(s, ":")
	if !ok || head == "" || path == "" || strings.Contains(head, "/") {
		return Target{}, fmt.Errorf("%q is not a remote location ([user@]host:path)", s)
	}

	t := Target{Host: head, Path: path}
	if user, host, ok := strings.Cut(head, "@"); ok {
		t.User, t.Host = user, host
	}
	if t.User == "" {
		t.User = os.Getenv("USER")
	}
	return t, nil
}

// Check dials the target over SSH on the given port and verifies the remote
// directory exists. The password file, when present, supplies password auth;
// keys from the usual locations are tried as well.
func Check(t Target, port int, passwordFile string) error {
	auth := authMethods(passwordFile)
	if len(auth) == 0 {
		return fmt.Errorf("no SSH authentication available: no password file at %s and no usable keys", passwordFile)
	}

	cfg := &ssh.ClientConfig{
		User:            t.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(t.Host, strconv.Itoa(port)), cfg)
	if err != nil {
		return fmt.Errorf("dial %s: %w", t.Host, err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	if err := session.Run("test -d " + shellescape(t.Path)); err != nil {
		return fmt.Errorf("remote directory %s not found: %w", t.Path, err)
	}
	return nil
}

// authMethods builds the auth chain: password file first, then SSH keys.
func authMethods(passwordFile string) []ssh.AuthMethod {
	var methods []ssh.AuthMethod
	if pw, err := os.ReadFile(passwordFile); err == nil {
		methods = append(methods, ssh.Password(strings.TrimRight(string(pw), "\r\n")))
	}
	if keys := publicKeyAuth(); keys != nil {
		methods = append(methods, keys)
	}
	return methods
}

// publicKeyAuth loads SSH keys from standard locations.
func publicKeyAuth() ssh.AuthMethod {
	keyPaths := []string{
		filepath.Join(os.Getenv("HOME"), ".ssh", "id_ed25519"),
		filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa"),
	}

	var signers []ssh.Signer
	for _, keyPath := range keyPaths {
		key, err := os.ReadFile(keyPath)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) == 0 {
		return nil
	}
	return ssh.PublicKeys(signers...)
}

// shellescape quotes a string for safe use in a remote shell command.
func shellescape(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
