package proxies

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/mazen160/go-random"
)

// TorProxy is the local socks5 entrypoint the anonymizing relay service
// exposes when running.
const TorProxy = "socks5://127.0.0.1:9050"

// Normalize turns a raw `host:port` line into a full proxy url with the given
// scheme. Lines that already carry a scheme are kept as-is.
func Normalize(line, scheme string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	if strings.Contains(line, "://") {
		if _, err := url.Parse(line); err != nil {
			return "", false
		}
		return line, true
	}
	if !strings.Contains(line, ":") {
		return "", false
	}
	return fmt.Sprintf("%s://%s", scheme, line), true
}

// Load reads a proxies.txt file, one proxy url per line, `#` comments and
// blank lines skipped. A missing file is not an error, it just yields an
// empty pool.
func Load(path string) (*Pool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Pool{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []string
	for _, line := range strings.Split(string(contents), "\n") {
		proxy, ok := Normalize(line, "http")
		if !ok {
			continue
		}
		list = append(list, proxy)
	}
	return &Pool{list: list}, nil
}

type Pool struct {
	list []string
}

func NewPool(list []string) *Pool {
	return &Pool{list: list}
}

func (p *Pool) Len() int {
	return len(p.list)
}

// Random picks a proxy at random, or "" when the pool is empty.
func (p *Pool) Random() string {
	if len(p.list) == 0 {
		return ""
	}
	idx, err := random.IntRange(0, len(p.list))
	if err != nil {
		return p.list[0]
	}
	return p.list[idx]
}
