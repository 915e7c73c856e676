package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// DSN builds a postgres:// connection string from the database block.
//
// The host/port pair is joined with net.JoinHostPort so IPv6 hosts get brackets,
// and the password is URL-escaped so characters like ':' or '@' survive.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}
