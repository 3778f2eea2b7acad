package quantity

import (
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"sync/atomic"
)

var (
	ErrQuantity            = errors.New("invalid quantity")
	ErrIncompatibleUnits   = errors.New("incompatible units")
	ErrUndefinedResult     = errors.New("undefined result")
	ErrUnitConversion      = errors.New("unit conversion failed")
	ErrNotRegistered       = errors.New("not registered")
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrDuplicateSymbol     = errors.New("duplicate symbol")
	ErrConverterOrder      = errors.New("converter released out of order")
	ErrAllocation          = errors.New("allocation remainder without quantum")
)

// System holds the quantity types and units known to a program, together
// with the converters registered for them and the caches of derived
// operation results.
//
// Declarations may be made from several goroutines.
// Converter handles returned by [Type.RegisterConverter] must be released
// by the goroutine that acquired them.
type System struct {
	define sync.Mutex // serializes declarations

	mu       sync.RWMutex
	types    []*typeInfo
	units    []*unitInfo
	names    map[string]Type
	symbols  map[string]Unit
	typeOps  map[opKey[Type]]opResult[Type]
	unitOps  map[opKey[Unit]]opResult[Unit]
	typeDefs *Registry[Type, Type]

	logger   *slog.Logger
	rounding RoundingMode

	cacheHits    atomic.Uint64
	cacheMisses  atomic.Uint64
	conversions  atomic.Uint64
	convFailures atomic.Uint64
}

// Option configures a [System].
type Option func(*System)

// WithLogger sets the logger receiving debug records about declarations,
// converter registrations and cache misses.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRounding sets the rounding mode used to quantize amounts and to
// convert exact intermediate results to decimals.
// The default is [HalfEven].
func WithRounding(m RoundingMode) Option {
	return func(s *System) {
		s.rounding = m
	}
}

// NewSystem returns an empty system.
func NewSystem(opts ...Option) *System {
	s := &System{
		names:    make(map[string]Type),
		symbols:  make(map[string]Unit),
		typeOps:  make(map[opKey[Type]]opResult[Type]),
		unitOps:  make(map[opKey[Unit]]opResult[Unit]),
		typeDefs: NewRegistry[Type, Type](true),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		rounding: HalfEven,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the logger of the system.
func (s *System) Logger() *slog.Logger {
	return s.logger
}

// Rounding returns the default rounding mode of the system.
func (s *System) Rounding() RoundingMode {
	return s.rounding
}

// TypeByName returns the type declared with the given name.
func (s *System) TypeByName(name string) (Type, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.names[name]
	return t, ok
}

// Types returns all declared types in order of declaration.
func (s *System) Types() []Type {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Type, len(s.types))
	for i := range s.types {
		res[i] = Type{sys: s, id: i}
	}
	return res
}

// UnitBySymbol returns the unit with the given symbol.
func (s *System) UnitBySymbol(symbol string) (Unit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.symbols[symbol]
	return u, ok
}

// LookupType returns the type registered with a definition equivalent to def.
func (s *System) LookupType(def Term[Type]) (Type, bool) {
	return s.typeDefs.Lookup(def)
}

// Stats is a snapshot of the counters of a [System].
type Stats struct {
	Types              int
	Units              int
	CacheHits          uint64
	CacheMisses        uint64
	Conversions        uint64
	ConversionFailures uint64
}

// Stats returns the current counters of the system.
func (s *System) Stats() Stats {
	s.mu.RLock()
	nt, nu := len(s.types), len(s.units)
	s.mu.RUnlock()
	return Stats{
		Types:              nt,
		Units:              nu,
		CacheHits:          s.cacheHits.Load(),
		CacheMisses:        s.cacheMisses.Load(),
		Conversions:        s.conversions.Load(),
		ConversionFailures: s.convFailures.Load(),
	}
}

func (s *System) tinfo(id int) *typeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.types[id]
}

func (s *System) uinfo(id int) *unitInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.units[id]
}

type opKind int

const (
	opMul opKind = iota
	opQuo
	opPow
)

func (k opKind) String() string {
	switch k {
	case opMul:
		return "*"
	case opQuo:
		return "/"
	}
	return "^"
}

// opKey identifies a cached operation result.
// For opPow, exp holds the exponent and the second operand is zero.
type opKey[E comparable] struct {
	op   opKind
	a, b E
	exp  int
}

type opResult[E comparable] struct {
	num  *big.Rat // must not be modified
	elem E
	ok   bool // false if the result is a plain number
}

func lookupOp[E comparable](s *System, m map[opKey[E]]opResult[E], key opKey[E]) (opResult[E], bool) {
	s.mu.RLock()
	res, ok := m[key]
	s.mu.RUnlock()
	if ok {
		s.cacheHits.Add(1)
	} else {
		s.cacheMisses.Add(1)
	}
	return res, ok
}

func storeOp[E comparable](s *System, m map[opKey[E]]opResult[E], key opKey[E], res opResult[E]) {
	s.mu.Lock()
	m[key] = res
	s.mu.Unlock()
}
