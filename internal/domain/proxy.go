package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProxyProtocol identifies how connections are tunnelled through a proxy.
type ProxyProtocol string

const (
	ProxyHTTP   ProxyProtocol = "HTTP"
	ProxyHTTPS  ProxyProtocol = "HTTPS"
	ProxySOCKS5 ProxyProtocol = "SOCKS5"
)

// ProxyFailThreshold is the consecutive-failure count at which a proxy is
// demoted to inactive. A single successful probe resets the count to zero.
const ProxyFailThreshold = 5

// Proxy is a pooled network egress point. host:port is unique across the pool.
// Credentials, when present, are stored sealed.
type Proxy struct {
	ProxyID        uuid.UUID
	Host           string
	Port           int
	Username       string
	SealedPassword string
	Protocol       ProxyProtocol
	Country        string
	IsActive       bool
	FailCount      int
	LastChecked    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HealthResult is the outcome of one connectivity probe.
type HealthResult struct {
	ProxyID   uuid.UUID
	Healthy   bool
	CheckedAt time.Time
}
