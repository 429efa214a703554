package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	connectTimeout = 10 * time.Second
	closeTimeout   = 5 * time.Second
)

// DB wraps a pgx connection and remembers how to reopen it.
type DB struct {
	Conn       *pgx.Conn
	connString string
	host       string
	port       string
	user       string
	database   string
}

// Connect opens a connection from individual parameters.
func Connect(ctx context.Context, host, port, user, password, database string) (*DB, error) {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + database,
		RawQuery: "sslmode=prefer",
	}
	return ConnectURI(ctx, u.String())
}

// ConnectURI opens a connection from a postgres:// URI. sslmode defaults to
// prefer.
func ConnectURI(ctx context.Context, uri string) (*DB, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid URI: %w", err)
	}
	q := parsed.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "prefer")
		parsed.RawQuery = q.Encode()
	}

	d := &DB{
		connString: parsed.String(),
		host:       parsed.Hostname(),
		port:       parsed.Port(),
		database:   strings.TrimPrefix(parsed.Path, "/"),
	}
	if d.port == "" {
		d.port = "5432"
	}
	if parsed.User != nil {
		d.user = parsed.User.Username()
	}
	if err := d.open(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DB) open(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, d.connString)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", d.ConnInfo(), err)
	}
	d.Conn = conn
	return nil
}

// Reconnect drops the current connection and opens a fresh one.
func (d *DB) Reconnect(ctx context.Context) error {
	d.Close()
	return d.open(ctx)
}

// Ping reports whether the connection is alive. A dead connection is
// reopened once.
func (d *DB) Ping(ctx context.Context) error {
	if d.Conn != nil {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := d.Conn.Ping(pctx)
		cancel()
		if err == nil {
			return nil
		}
	}
	return d.Reconnect(ctx)
}

// Database returns the database name.
func (d *DB) Database() string {
	return d.database
}

// Close closes the connection.
func (d *DB) Close() {
	if d.Conn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	d.Conn.Close(ctx)
	d.Conn = nil
}

// ConnInfo returns the connection target without the password.
func (d *DB) ConnInfo() string {
	return fmt.Sprintf("postgres://%s@%s:%s/%s", d.user, d.host, d.port, d.database)
}
