// Package types implements the symbol table, type registry, function
// records, variable-type map, and string pool that the compiler builds as
// it walks the source.
package types

import "github.com/go-jass/jassc/internal/bytecode"

// SymbolID is the dense integer id of an interned identifier string.
type SymbolID int

// Symbols is an insertion-ordered sequence of unique identifier strings.
// Each string has a dense id equal to its insertion index; ids are stable
// for the lifetime of a compilation.
type Symbols struct {
	names []string
	ids   map[string]SymbolID
}

// NewSymbols creates an empty symbol table.
func NewSymbols() *Symbols {
	return &Symbols{ids: make(map[string]SymbolID)}
}

// Intern returns name's id, inserting it if it has not been seen before.
func (s *Symbols) Intern(name string) SymbolID {
	if id, ok := s.ids[name]; ok {
		return id
	}

	id := SymbolID(len(s.names))
	s.names = append(s.names, name)
	s.ids[name] = id

	return id
}

// Lookup returns the id already assigned to name, if any.
func (s *Symbols) Lookup(name string) (SymbolID, bool) {
	id, ok := s.ids[name]
	return id, ok
}

// Name returns the string interned under id.
func (s *Symbols) Name(id SymbolID) string {
	return s.names[id]
}

// Count returns the number of distinct interned strings.
func (s *Symbols) Count() int {
	return len(s.names)
}

// All returns the interned strings in insertion order.
func (s *Symbols) All() []string {
	return s.names
}

// TypeRecord describes a declared type: a primitive kind or a user-defined
// type extending one (directly or transitively).
type TypeRecord struct {
	Name     string
	Base     string // direct base name; empty for a primitive
	Kind     bytecode.Kind
	IsArray  bool
}

// primitiveNames lists the seven primitive kinds installed before any user
// source is parsed, per §3 and §4.3.
var primitiveNames = []string{"code", "integer", "real", "string", "handle", "boolean", "null"}

// Types resolves type names to TypeRecords and implements the extends
// relation and the assignability rule of §4.3.
type Types struct {
	symbols *Symbols
	records map[SymbolID]*TypeRecord
}

// NewTypes creates a registry with the seven primitive kinds bootstrapped.
func NewTypes(symbols *Symbols) *Types {
	t := &Types{
		symbols: symbols,
		records: make(map[SymbolID]*TypeRecord),
	}

	for _, name := range primitiveNames {
		kind, ok := bytecode.LookupKind(name)
		if !ok {
			panic("types: unknown primitive kind " + name)
		}

		id := symbols.Intern(name)
		t.records[id] = &TypeRecord{Name: name, Kind: kind}
	}

	return t
}

// Lookup returns the type record interned under name.
func (t *Types) Lookup(name string) (*TypeRecord, bool) {
	id, ok := t.symbols.Lookup(name)
	if !ok {
		return nil, false
	}

	return t.LookupID(id)
}

// LookupID returns the type record for a symbol id.
func (t *Types) LookupID(id SymbolID) (*TypeRecord, bool) {
	r, ok := t.records[id]
	return r, ok
}

// Declare resolves baseName (which must already exist), copies its kind,
// and installs a new record for derivedName, returning the derived
// record's symbol id. Matches §4.3's declare_type.
func (t *Types) Declare(derivedName, baseName string) (SymbolID, error) {
	base, ok := t.Lookup(baseName)
	if !ok {
		return 0, &ResolutionError{Msg: "unknown base type: " + baseName}
	}

	id := t.symbols.Intern(derivedName)
	t.records[id] = &TypeRecord{Name: derivedName, Base: baseName, Kind: base.Kind}

	return id, nil
}

// MarkArray sets the array flag on the record interned under id.
func (t *Types) MarkArray(id SymbolID) {
	t.records[id].IsArray = true
}

// Assignable reports whether a value of type from may be assigned to a
// location of type to, per the §4.3 subtype rule. widen reports whether the
// assignment requires an IntToReal widening.
func (t *Types) Assignable(from, to *TypeRecord) (ok bool, widen bool) {
	if from.Name == "null" {
		return true, false
	}

	if from.IsArray != to.IsArray {
		return false, false
	}

	if from.Name == to.Name {
		return true, false
	}

	if from.Kind == to.Kind && to.Base == "" {
		return true, false
	}

	if from.Kind == bytecode.KindInteger && to.Name == "real" {
		return true, true
	}

	// Transitive extends-chain: walk from's chain looking for to.
	cur := from

	for cur.Base != "" {
		next, ok := t.Lookup(cur.Base)
		if !ok {
			break
		}

		if next.Name == to.Name {
			return true, false
		}

		cur = next
	}

	return false, false
}

// FunctionParam is one declared parameter of a function record.
type FunctionParam struct {
	Name string
	Type *TypeRecord
	Ord  int
}

// FunctionRecord describes a declared function, native or user-defined.
type FunctionRecord struct {
	Name    string
	Params  []FunctionParam
	Returns *TypeRecord // nil for "returns nothing"
}

// Functions holds the two disjoint maps of native and user-defined function
// records, keyed by symbol id.
type Functions struct {
	native map[SymbolID]*FunctionRecord
	jass   map[SymbolID]*FunctionRecord
}

// NewFunctions creates an empty function registry.
func NewFunctions() *Functions {
	return &Functions{
		native: make(map[SymbolID]*FunctionRecord),
		jass:   make(map[SymbolID]*FunctionRecord),
	}
}

// Declared reports whether id already names a function, native or
// user-defined.
func (f *Functions) Declared(id SymbolID) bool {
	if _, ok := f.native[id]; ok {
		return true
	}
	_, ok := f.jass[id]
	return ok
}

// DeclareNative records a native function under id.
func (f *Functions) DeclareNative(id SymbolID, rec *FunctionRecord) {
	f.native[id] = rec
}

// DeclareJass records a user-defined function under id.
func (f *Functions) DeclareJass(id SymbolID, rec *FunctionRecord) {
	f.jass[id] = rec
}

// Resolve returns the function record for id, preferring a user-defined
// definition over a native one of the same name, per §4.5's call protocol.
func (f *Functions) Resolve(id SymbolID) (rec *FunctionRecord, native bool, ok bool) {
	if rec, ok := f.jass[id]; ok {
		return rec, false, true
	}
	if rec, ok := f.native[id]; ok {
		return rec, true, true
	}
	return nil, false, false
}

// Variables is the variable-type map: symbol id to the type record in
// effect at declaration.
type Variables struct {
	types map[SymbolID]*TypeRecord
}

// NewVariables creates an empty variable-type map.
func NewVariables() *Variables {
	return &Variables{types: make(map[SymbolID]*TypeRecord)}
}

// Set records var's type.
func (v *Variables) Set(id SymbolID, t *TypeRecord) {
	v.types[id] = t
}

// Get returns var's type, if declared.
func (v *Variables) Get(id SymbolID) (*TypeRecord, bool) {
	t, ok := v.types[id]
	return t, ok
}

// Strings is the insertion-ordered, deduplicated string-literal pool.
type Strings struct {
	values []string
	index  map[string]int
}

// NewStrings creates an empty string pool.
func NewStrings() *Strings {
	return &Strings{index: make(map[string]int)}
}

// Intern returns value's index into the pool, inserting it if new.
func (s *Strings) Intern(value string) int {
	if i, ok := s.index[value]; ok {
		return i
	}

	i := len(s.values)
	s.values = append(s.values, value)
	s.index[value] = i

	return i
}

// Value returns the string at index i.
func (s *Strings) Value(i int) string {
	return s.values[i]
}

// All returns the pooled strings in insertion order.
func (s *Strings) All() []string {
	return s.values
}

// ResolutionError reports a failed name lookup: unknown type, variable, or
// function, or a duplicate function definition. It implements the
// semantic-resolution error kind of §7.
type ResolutionError struct {
	Msg string
}

func (e *ResolutionError) Error() string { return e.Msg }

func (e *ResolutionError) Is(target error) bool {
	_, ok := target.(*ResolutionError)
	return ok
}
