// Package natsutil carries simulation deliveries over NATS.
package natsutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/arloliu/rotawin/test/simulation/internal/config"
)

// StartEmbeddedNATS starts an embedded NATS server with JetStream.
//
// Parameters:
//   - storeDir: JetStream store directory; empty uses a server-chosen temp dir
//
// Returns:
//   - *server.Server: Running NATS server
//   - *nats.Conn: Client connection to the server
//   - error: Error if startup fails
func StartEmbeddedNATS(storeDir string) (*server.Server, *nats.Conn, error) {
	opts := &server.Options{
		Host:      "127.0.0.1",
		JetStream: true,
		Port:      -1, // Random port
		StoreDir:  storeDir,
		NoLog:     true,
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create NATS server: %w", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, nil, errors.New("NATS server not ready")
	}

	nc, err := nats.Connect(ns.ClientURL())
	if err != nil {
		ns.Shutdown()
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return ns, nc, nil
}

// Connect returns a NATS connection according to cfg, starting an embedded
// server in embedded mode.
//
// Returns:
//   - *nats.Conn: Client connection
//   - func(): Closes the connection and stops the embedded server, if any
//   - error: Startup or connection error
func Connect(cfg config.NATSConfig) (*nats.Conn, func(), error) {
	if cfg.Mode == config.NATSEmbedded {
		ns, nc, err := StartEmbeddedNATS("")
		if err != nil {
			return nil, nil, err
		}

		return nc, func() {
			nc.Close()
			ns.Shutdown()
			ns.WaitForShutdown()
		}, nil
	}

	nc, err := nats.Connect(cfg.URL, nats.Timeout(5*time.Second))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	return nc, nc.Close, nil
}
