package adapter

import (
	"log/slog"
	"strings"

	"github.com/paperledger/bankstat/internal/common"
	"github.com/paperledger/bankstat/internal/model"
)

// MinDetectScore is the detection confidence below which the registry falls
// back to the generic adapter instead of trusting a format-specific one.
const MinDetectScore = 0.5

// Registry holds the registered adapters in a fixed order. Registration
// order breaks detection-score ties: first registered wins.
type Registry struct {
	byName   map[string]Adapter
	adapters []Adapter
	fallback Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Adapter)}
}

// Register adds an adapter. Panics on a duplicate name, which is a
// programming error in the wiring.
func (r *Registry) Register(a Adapter) {
	key := strings.ToLower(a.Name())
	if _, ok := r.byName[key]; ok {
		panic("duplicate adapter name: " + key)
	}
	r.byName[key] = a
	r.adapters = append(r.adapters, a)
}

// SetFallback nominates the adapter used when no registered adapter scores
// above MinDetectScore.
func (r *Registry) SetFallback(a Adapter) {
	if _, ok := r.byName[strings.ToLower(a.Name())]; !ok {
		r.Register(a)
	}
	r.fallback = a
}

// Get returns the adapter registered under name, or nil.
func (r *Registry) Get(name string) Adapter {
	return r.byName[strings.ToLower(name)]
}

// Select chooses the adapter for a file. An explicit hint is a contract: the
// named adapter is used directly and an unknown hint is an error, never a
// silent fallback. Without a hint every adapter's Detect runs and the highest
// score wins; below MinDetectScore the fallback adapter is chosen.
func (r *Registry) Select(content []byte, hint string) (Adapter, model.BankProfile, error) {
	if hint != "" {
		a := r.Get(hint)
		if a == nil {
			return nil, model.BankProfile{}, common.NewFormatError(hint, "no adapter registered for bank hint", common.ErrUnknownBank)
		}
		return a, model.BankProfile{BankID: a.Name(), DetectionConfidence: 1.0}, nil
	}

	var best Adapter
	bestScore := -1.0
	for _, a := range r.adapters {
		score := a.Detect(content)
		slog.Debug("adapter detection", "adapter", a.Name(), "score", score)
		if score > bestScore {
			best, bestScore = a, score
		}
	}

	if best == nil || bestScore < MinDetectScore {
		if r.fallback == nil {
			return nil, model.BankProfile{}, common.NewFormatError("", "no adapter recognized the file and no fallback is registered", common.ErrUnknownBank)
		}
		slog.Debug("falling back to generic adapter", "best_score", bestScore)
		return r.fallback, model.BankProfile{BankID: r.fallback.Name(), DetectionConfidence: bestScore}, nil
	}

	return best, model.BankProfile{BankID: best.Name(), DetectionConfidence: bestScore}, nil
}
