package pkg

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/creack/pty"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gliderlabs/ssh"
	gossh "golang.org/x/crypto/ssh"
)

// Server exposes the console client over ssh: each session gets the client
// binary running on its own pseudo-terminal, so remote players see the same
// board and prompt a local run would give them.
type Server struct {
	*ssh.Server
	clientPath string
}

// NewServer configures an ssh front-end serving the client binary at
// clientPath. The host key is generated per process; sessions idle longer
// than idleTimeout are dropped.
func NewServer(addr, clientPath string, idleTimeout time.Duration) (*Server, error) {
	signer, err := generateHostKey()
	if err != nil {
		return nil, fmt.Errorf("host key: %w", err)
	}

	srv := &Server{clientPath: clientPath}
	srv.Server = &ssh.Server{
		Addr:        addr,
		IdleTimeout: idleTimeout,
		Handler:     srv.handle,
	}
	srv.Server.AddHostKey(signer)

	return srv, nil
}

func generateHostKey() (gossh.Signer, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return gossh.NewSignerFromKey(key)
}

// handle runs one ssh session: spawn the client on a pty, mirror the session
// window size, and pipe bytes both ways until either side hangs up.
func (s *Server) handle(sess ssh.Session) {
	name := petname.Generate(2, "-")
	log.Printf("[%s] session from %s", name, sess.RemoteAddr())

	ptyReq, winCh, isPty := sess.Pty()
	if !isPty {
		io.WriteString(sess, "interactive terminal required\n")
		sess.Exit(1)
		return
	}

	cmd := exec.CommandContext(sess.Context(), s.clientPath)
	cmd.Env = append(sess.Environ(), "TERM="+ptyReq.Term)

	f, err := pty.Start(cmd)
	if err != nil {
		log.Printf("[%s] pty start: %v", name, err)
		io.WriteString(sess, fmt.Sprintf("failed to start console: %s\n", err))
		sess.Exit(1)
		return
	}
	defer f.Close()

	go func() {
		for win := range winCh {
			pty.Setsize(f, &pty.Winsize{
				Rows: uint16(win.Height),
				Cols: uint16(win.Width),
			})
		}
	}()

	go io.Copy(f, sess)
	io.Copy(sess, f)

	cmd.Wait()
	log.Printf("[%s] session closed", name)
}
