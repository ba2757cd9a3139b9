package access

import "crypto/subtle"

// GateConfig là danh sách API key / fetch code được phép, inject lúc khởi tạo
type GateConfig struct {
	APIKeys    []string
	FetchCodes []string
}

// Credentials are the values a frontend reader sends in X-API-Key / X-Fetch-Code.
type Credentials struct {
	APIKey    string
	FetchCode string
}

// Present is true when both halves were sent
func (c Credentials) Present() bool {
	return c.APIKey != "" && c.FetchCode != ""
}

// Gate validates the two-factor API credential of approved frontend readers.
// It knows nothing about roles.
type Gate struct {
	keys  [][]byte
	codes [][]byte
}

func NewGate(cfg GateConfig) *Gate {
	g := &Gate{}
	for _, k := range cfg.APIKeys {
		if k != "" {
			g.keys = append(g.keys, []byte(k))
		}
	}
	for _, c := range cfg.FetchCodes {
		if c != "" {
			g.codes = append(g.codes, []byte(c))
		}
	}
	return g
}

// Allow reports whether both the API key and the fetch code are configured values.
func (g *Gate) Allow(c Credentials) bool {
	if g == nil || !c.Present() {
		return false
	}
	// evaluate both so timing does not reveal which half failed
	keyOK := matchAny(g.keys, []byte(c.APIKey))
	codeOK := matchAny(g.codes, []byte(c.FetchCode))
	return keyOK && codeOK
}

func matchAny(allowed [][]byte, got []byte) bool {
	ok := 0
	for _, a := range allowed {
		ok |= subtle.ConstantTimeCompare(a, got)
	}
	return ok == 1
}
