package odr

import (
	"container/list"
	"fmt"
	"strings"
	"sync"

	"scicore/expr"
	"scicore/scierr"
)

// CompiledModel is the immutable record the cache owns: the evaluator plus
// one symbolic-gradient evaluator per parameter and per independent
// variable (spec.md §3).
type CompiledModel struct {
	Formula          string
	IndependentNames []string
	ParameterNames   []string
	Eval             *expr.Expression
	ParamGrad        []*expr.Expression // one per ParameterNames entry
	IndepGrad        []*expr.Expression // one per IndependentNames entry
}

// CacheCapacity bounds the process-wide LRU to spec.md's §3 invariant
// |entries| <= 64.
const CacheCapacity = 64

// modelCache is a process-wide, mutex-guarded LRU: a bounded map plus a
// doubly-linked access-order list behind one lock (spec.md's Design Notes
// §9 "Process-wide mutex-guarded LRU cache"). container/list and sync.Mutex
// are the standard library; no third-party LRU was used here because the
// Design Notes prescribe this exact hand-rolled structure rather than a
// general-purpose cache package (see DESIGN.md).
type modelCache struct {
	mu       sync.Mutex
	poisoned bool
	entries  map[string]*list.Element // key -> list element
	order    *list.List               // front = most recently used
}

type cacheEntry struct {
	key   string
	model *CompiledModel
}

var globalCache = &modelCache{
	entries: make(map[string]*list.Element),
	order:   list.New(),
}

// cacheKey builds the identity key: lowercased/trimmed formula plus ordered
// independent and parameter name lists (spec.md §3, §4.3).
func cacheKey(formula string, independentNames, parameterNames []string) string {
	f := strings.ToLower(strings.TrimSpace(formula))
	return fmt.Sprintf("%s||x:%s||p:%s", f, strings.Join(independentNames, ","), strings.Join(parameterNames, ","))
}

// get returns a cached model and moves it to the front of the LRU order.
func (c *modelCache) get(key string) (*CompiledModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned {
		return nil, scierr.New(scierr.CachePoisoned, "modelCache.get", nil)
	}
	elem, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).model, nil
}

// put inserts model under key, evicting the least-recently-used entry if
// the cache is at capacity. If key is already present (a concurrent
// compiler raced and lost), the existing stored entry is kept and
// returned — this is the "double-check after compile" step spec.md §4.3
// requires so concurrent compilers agree on one canonical stored entry.
func (c *modelCache) put(key string, model *CompiledModel) (*CompiledModel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.poisoned {
		return nil, scierr.New(scierr.CachePoisoned, "modelCache.put", nil)
	}
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).model, nil
	}
	elem := c.order.PushFront(&cacheEntry{key: key, model: model})
	c.entries[key] = elem
	if c.order.Len() > CacheCapacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
	return model, nil
}

// getOrCompile implements the cache's single compile-or-fetch path: lookup,
// and on miss, unlock, compile, relock, lookup again (double-check), insert
// if still missing.
func getOrCompile(formula string, independentNames, parameterNames []string) (*CompiledModel, error) {
	key := cacheKey(formula, independentNames, parameterNames)

	if m, err := globalCache.get(key); err != nil {
		return nil, err
	} else if m != nil {
		return m, nil
	}

	model, err := compileModel(formula, independentNames, parameterNames)
	if err != nil {
		return nil, err
	}

	return globalCache.put(key, model)
}

func compileModel(formula string, independentNames, parameterNames []string) (*CompiledModel, error) {
	symbols := make([]string, 0, len(independentNames)+len(parameterNames))
	symbols = append(symbols, independentNames...)
	symbols = append(symbols, parameterNames...)

	e, err := expr.Compile(formula, symbols)
	if err != nil {
		return nil, err
	}

	paramGrad, err := e.Gradient(parameterNames)
	if err != nil {
		return nil, scierr.New(scierr.Compile, "compileModel: parameter gradients", err)
	}
	indepGrad, err := e.Gradient(independentNames)
	if err != nil {
		return nil, scierr.New(scierr.Compile, "compileModel: independent gradients", err)
	}

	return &CompiledModel{
		Formula:          strings.ToLower(strings.TrimSpace(formula)),
		IndependentNames: independentNames,
		ParameterNames:   parameterNames,
		Eval:             e,
		ParamGrad:        paramGrad,
		IndepGrad:        indepGrad,
	}, nil
}
