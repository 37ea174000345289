package otp

import (
	"sync"
	"time"
)

// Kind separates the customer-registration workflow from the staff one, so
// concurrent registrations for the same address cannot clobber each other.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindStaff    Kind = "staff"
)

// Pending is the payload materialized as a durable account on successful
// verification. Customer and staff workflows share the struct; the kind
// decides which fields matter.
type Pending struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Location    string
	HomeAddress string
	Role        string
	Username    string
}

type Record struct {
	Code     string
	IssuedAt time.Time
	Payload  Pending
}

// Store holds unconsumed one-time codes keyed by (email, kind). A record is
// single-use: Consume removes it atomically on a code match.
type Store interface {
	Put(email string, kind Kind, rec Record)
	Get(email string, kind Kind) (Record, bool)
	Consume(email string, kind Kind, code string) (Record, bool)
	Evict(email string, kind Kind)
	EvictExpired(now time.Time) int
}

type key struct {
	email string
	kind  Kind
}

// MemoryStore is a mutex-guarded in-process Store. Expiry is evaluated
// lazily on verification; EvictExpired bounds growth from abandoned
// registrations.
type MemoryStore struct {
	mu      sync.Mutex
	records map[key]Record
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		records: make(map[key]Record),
		ttl:     ttl,
	}
}

// Put stores a record, overwriting any unconsumed one for the same key.
// Last issued wins.
func (s *MemoryStore) Put(email string, kind Kind, rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key{email, kind}] = rec
}

func (s *MemoryStore) Get(email string, kind Kind) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key{email, kind}]
	return rec, ok
}

// Consume removes and returns the record iff the submitted code matches.
// A mismatch retains the record so the caller may retry until expiry.
func (s *MemoryStore) Consume(email string, kind Kind, code string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{email, kind}
	rec, ok := s.records[k]
	if !ok || rec.Code != code {
		return Record{}, false
	}
	delete(s.records, k)
	return rec, true
}

func (s *MemoryStore) Evict(email string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key{email, kind})
}

func (s *MemoryStore) EvictExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, rec := range s.records {
		if now.Sub(rec.IssuedAt) > s.ttl {
			delete(s.records, k)
			n++
		}
	}
	return n
}
