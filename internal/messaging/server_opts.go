package messaging

import "time"

type ServerOpt func(*Server)

// WithStartTimeout sets the startup timeout for the nats server
func WithStartTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		if d > 0 {
			s.startupTimeout = d
		}
	}
}

// WithHost sets the host for the nats server
func WithHost(host string) ServerOpt {
	return func(s *Server) {
		if host != "" {
			s.host = host
		}
	}
}

// WithPort sets the port for the nats server
func WithPort(port int) ServerOpt {
	return func(s *Server) {
		s.port = port
	}
}
