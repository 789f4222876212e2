package protocol

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// JoinPathPrefix is the server route rooms are joined under.
const JoinPathPrefix = "/api/room/join/"

var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoint locates a room server and the namespace rooms are joined in.
type Endpoint struct {
	Scheme    string
	Host      string
	Port      int
	Namespace string
}

// JoinURL builds ws://<host>:<port>/api/room/join/<namespace>/<room>.
// Namespace and room are path-escaped.
func JoinURL(ep Endpoint, room string) (string, error) {
	scheme := ep.Scheme
	if scheme == "" {
		scheme = "ws"
	}
	if scheme != "ws" && scheme != "wss" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, scheme)
	}
	if ep.Host == "" {
		return "", fmt.Errorf("%w: empty host", ErrInvalidEndpoint)
	}
	if ep.Namespace == "" || strings.Contains(ep.Namespace, "/") {
		return "", fmt.Errorf("%w: bad namespace %q", ErrInvalidEndpoint, ep.Namespace)
	}
	if room == "" {
		return "", fmt.Errorf("%w: empty room id", ErrInvalidEndpoint)
	}

	host := ep.Host
	if ep.Port != 0 {
		host = net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port))
	}

	u := url.URL{
		Scheme:  scheme,
		Host:    host,
		Path:    JoinPathPrefix + ep.Namespace + "/" + room,
		RawPath: JoinPathPrefix + url.PathEscape(ep.Namespace) + "/" + url.PathEscape(room),
	}
	return u.String(), nil
}
