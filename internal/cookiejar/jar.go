// Package cookiejar implements net/http.CookieJar on top of the local
// preference store, so a backend session survives process restarts. Cookies
// are grouped by host; each host's list is serialized independently so a
// corrupt entry for one host never prevents loading the others.
package cookiejar

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"artfolio/internal/prefs"
	"artfolio/shared/go/logging"
)

// storageKey is the preference document holding the serialized jar.
const storageKey = "cookies.json"

// Record is the persisted form of one cookie. ExpiresAt is epoch
// milliseconds; zero marks a session cookie that never expires on its own.
type Record struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expiresAt"`
	Domain    string `json:"domain"`
	Path      string `json:"path"`
	Secure    bool   `json:"secure"`
	HttpOnly  bool   `json:"httpOnly"`
}

// Jar is a persistent per-host cookie store. A single instance is shared
// by every outbound request, so all access goes through one mutex.
type Jar struct {
	store *prefs.Store
	log   *logging.Logger
	now   func() time.Time

	mu      sync.Mutex
	cookies map[string][]Record
}

// New returns a jar loaded from the preference store. A store that cannot
// be deserialized as a whole is wiped and the jar starts empty.
func New(store *prefs.Store, log *logging.Logger) *Jar {
	j := &Jar{
		store:   store,
		log:     log,
		now:     time.Now,
		cookies: make(map[string][]Record),
	}
	j.load()
	return j
}

// SetCookies replaces the stored list for the URL's host and persists
// immediately. An empty cookie list is a no-op.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	records := make([]Record, 0, len(cookies))
	for _, c := range cookies {
		records = append(records, j.toRecord(u, c))
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[u.Hostname()] = records
	j.persistLocked()
}

// Cookies returns the valid cookies for the URL's host. Expired records are
// dropped on read and, when any were dropped, the reduced list is persisted.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	host := u.Hostname()
	nowMillis := j.now().UnixMilli()

	j.mu.Lock()
	defer j.mu.Unlock()

	records := j.cookies[host]
	valid := records[:0:0]
	for _, r := range records {
		if r.ExpiresAt > 0 && r.ExpiresAt < nowMillis {
			continue
		}
		valid = append(valid, r)
	}

	if len(valid) != len(records) {
		if len(valid) == 0 {
			delete(j.cookies, host)
		} else {
			j.cookies[host] = valid
		}
		j.persistLocked()
	}

	out := make([]*http.Cookie, 0, len(valid))
	for _, r := range valid {
		out = append(out, r.toCookie())
	}
	return out
}

// Clear drops every cookie and persists the empty state.
func (j *Jar) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = make(map[string][]Record)
	j.persistLocked()
}

// Hosts returns the hosts that currently have cookies stored.
func (j *Jar) Hosts() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	hosts := make([]string, 0, len(j.cookies))
	for h := range j.cookies {
		hosts = append(hosts, h)
	}
	return hosts
}

func (j *Jar) toRecord(u *url.URL, c *http.Cookie) Record {
	r := Record{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
	if r.Domain == "" {
		r.Domain = u.Hostname()
	}
	if r.Path == "" {
		r.Path = "/"
	}
	switch {
	case c.MaxAge > 0:
		r.ExpiresAt = j.now().Add(time.Duration(c.MaxAge) * time.Second).UnixMilli()
	case !c.Expires.IsZero():
		r.ExpiresAt = c.Expires.UnixMilli()
	}
	return r
}

func (r Record) toCookie() *http.Cookie {
	c := &http.Cookie{
		Name:     r.Name,
		Value:    r.Value,
		Domain:   r.Domain,
		Path:     r.Path,
		Secure:   r.Secure,
		HttpOnly: r.HttpOnly,
	}
	if r.ExpiresAt > 0 {
		c.Expires = time.UnixMilli(r.ExpiresAt).UTC()
	}
	return c
}

// persistLocked writes the jar through the preference store. The outer
// document maps host to an independently encoded JSON string so that each
// host entry can be validated on its own during load. Callers hold j.mu.
func (j *Jar) persistLocked() {
	serialized := make(map[string]string, len(j.cookies))
	for host, records := range j.cookies {
		blob, err := json.Marshal(records)
		if err != nil {
			j.log.Error(err, "serialize cookies for host "+host)
			continue
		}
		serialized[host] = string(blob)
	}

	data, err := json.Marshal(serialized)
	if err != nil {
		j.log.Error(err, "serialize cookie store")
		return
	}
	if err := j.store.Put(storageKey, data); err != nil {
		j.log.Error(err, "persist cookie store")
	}
}

func (j *Jar) load() {
	data, err := j.store.Get(storageKey)
	if err != nil {
		if err != prefs.ErrNotExist {
			j.log.Error(err, "read cookie store")
		}
		return
	}

	var serialized map[string]string
	if err := json.Unmarshal(data, &serialized); err != nil {
		// Corrupt outer document: wipe and start fresh.
		j.log.Error(err, "cookie store corrupt, clearing")
		j.Clear()
		return
	}

	for host, blob := range serialized {
		var records []Record
		if err := json.Unmarshal([]byte(blob), &records); err != nil {
			j.log.Error(err, "skipping corrupt cookies for host "+host)
			continue
		}
		if len(records) > 0 {
			j.cookies[host] = records
		}
	}
}
